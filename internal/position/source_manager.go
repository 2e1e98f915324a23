package position

// FileID identifies a registered source file within a SourceManager.
// The zero value identifies no file.
type FileID int

// SourceManager registers the source files of one compilation unit and
// hands out stable file identifiers. It is owned by the compilation
// context and shares its single-writer discipline.
type SourceManager struct {
	files []string
	index map[string]FileID
}

// NewSourceManager creates an empty source manager.
func NewSourceManager() *SourceManager {
	return &SourceManager{
		index: make(map[string]FileID),
	}
}

// AddFile registers a file name and returns its identifier. Registering
// the same name twice returns the original identifier.
func (sm *SourceManager) AddFile(name string) FileID {
	if id, ok := sm.index[name]; ok {
		return id
	}

	sm.files = append(sm.files, name)
	id := FileID(len(sm.files))
	sm.index[name] = id

	return id
}

// Name returns the file name for an identifier, or "" for the zero FileID
// or an unknown identifier.
func (sm *SourceManager) Name(id FileID) string {
	if id <= 0 || int(id) > len(sm.files) {
		return ""
	}

	return sm.files[id-1]
}

// FileCount returns the number of registered files.
func (sm *SourceManager) FileCount() int {
	return len(sm.files)
}
