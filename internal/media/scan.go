package media

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// minSegments is the number of underscore-separated name segments a media
// file must have; the part number is the fourth one.
const minSegments = 4

// AnomalyKind classifies a non-fatal scan finding.
type AnomalyKind string

const (
	AnomalyMissingDir   AnomalyKind = "missing_dir"
	AnomalyInvalidName  AnomalyKind = "invalid_name"
	AnomalyDuplicateKey AnomalyKind = "duplicate_key"
	AnomalyReadError    AnomalyKind = "read_error"
)

// Anomaly is something a scan skipped. Existing is set for duplicates and
// names the file that kept the key.
type Anomaly struct {
	Kind     AnomalyKind `json:"kind"`
	Media    Kind        `json:"media,omitempty"`
	Dir      string      `json:"dir"`
	File     string      `json:"file,omitempty"`
	Key      string      `json:"key,omitempty"`
	Existing string      `json:"existing,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}

// ScanResult is the outcome of scanning one folder.
type ScanResult struct {
	Entries    map[string]string
	Anomalies  []Anomaly
	Qualifying int // files with an accepted extension
}

// KeyFromFilename extracts the part key from a media file name of the form
// a_b_c_PARTNO.ext. It reports false when the name has too few segments.
func KeyFromFilename(name string) (string, bool) {
	segments := strings.Split(filepath.Base(name), "_")
	if len(segments) < minSegments {
		return "", false
	}
	seg := segments[minSegments-1]
	key := strings.ToUpper(strings.TrimSuffix(seg, filepath.Ext(seg)))
	if key == "" {
		return "", false
	}
	return key, true
}

// DropKey derives the key used to locate a node for a file dropped from
// outside the workspace. Names that do not follow the media convention fall
// back to the whole stem.
func DropKey(path string) string {
	if key, ok := KeyFromFilename(path); ok {
		return key
	}
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Scan lists dir and maps each qualifying file to its part key. The first
// file seen for a key wins; later ones are reported as duplicates. Scan never
// fails: problems are returned as anomalies.
func Scan(dir string, exts []string) ScanResult {
	res := ScanResult{Entries: make(map[string]string)}

	abs, err := filepath.Abs(dir)
	if err == nil {
		dir = abs
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		kind := AnomalyReadError
		if errors.Is(err, fs.ErrNotExist) {
			kind = AnomalyMissingDir
		}
		res.Anomalies = append(res.Anomalies, Anomaly{Kind: kind, Dir: dir, Detail: err.Error()})
		return res
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := allowed[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		res.Qualifying++

		key, ok := KeyFromFilename(name)
		if !ok {
			res.Anomalies = append(res.Anomalies, Anomaly{Kind: AnomalyInvalidName, Dir: dir, File: name})
			continue
		}
		if existing, dup := res.Entries[key]; dup {
			res.Anomalies = append(res.Anomalies, Anomaly{
				Kind:     AnomalyDuplicateKey,
				Dir:      dir,
				File:     name,
				Key:      key,
				Existing: filepath.Base(existing),
			})
			continue
		}
		res.Entries[key] = filepath.Join(dir, name)
	}
	return res
}
