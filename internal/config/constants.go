package config

// Version is the current p4spectec-core version.
var Version = "0.1.0"

const ILFileExt = ".il.json"

// ILFileExtensions are the recognized extensions for a serialized IL
// tree (internal/ilcodec's JSON encoding).
var ILFileExtensions = []string{".il.json", ".ilj"}

// TrimILExt removes a recognized IL extension from a filename, returning
// the original string unchanged if none matches.
func TrimILExt(name string) string {
	for _, ext := range ILFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasILExt reports whether path ends with a recognized IL extension.
func HasILExt(path string) bool {
	for _, ext := range ILFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsBatchMode indicates the process is running as cmd/p4batchd rather
// than the single-shot cmd/p4ilrun; set once at startup.
var IsBatchMode = false
