package models

// VersionResponse is returned by the version endpoint of the stand-in server.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// ErrorResponse is the JSON body written by the server on failures.
type ErrorResponse struct {
	Error string `json:"error"`
}
