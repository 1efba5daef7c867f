package domain

// WorkspaceSpec describes a workspace to scaffold.
type WorkspaceSpec struct {
	Root string
}

// BatchSpec is a named list of request lines, or a bulk upload, loaded from a batch file.
type BatchSpec struct {
	Name   string
	Path   string
	Lines  []string
	Upload string
}

// BatchRef is a lightweight reference to a batch file on disk.
type BatchRef struct {
	Name string
	Path string
}
