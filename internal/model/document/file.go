package document

// File describes one knowledge base document as listed by the files endpoint.
type File struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
}

// Listing is the payload of GET files.
type Listing struct {
	Files []File `json:"files"`
}
