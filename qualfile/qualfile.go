// Package qualfile reads and writes .qual files: append-only JSONL files
// of records living next to the artifacts they describe. Two layouts are
// supported transparently, one file per artifact (src/parser.rs.qual) and
// one file per directory (src/.qual); lookups go by each record's subject
// field, never by file path.
package qualfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/logger"
	"github.com/qualdev/qualifier/record"
)

// QualFile is a parsed .qual file.
type QualFile struct {
	// Path to the .qual file on disk.
	Path string
	// Subject derived from the file path (path minus the .qual suffix).
	// Individual records may be about other subjects in the directory
	// layout.
	Subject string
	// Records in file order, oldest first.
	Records []record.Record
}

// Parse reads a .qual file from disk. Blank lines and lines starting
// with // are skipped; every other line must be a valid JSON record.
func Parse(path string) (*QualFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	records, err := parseLines(string(content), path)
	if err != nil {
		return nil, err
	}

	return &QualFile{
		Path:    path,
		Subject: ArtifactName(path),
		Records: records,
	}, nil
}

// ParseString parses records from in-memory JSONL content.
func ParseString(content string) ([]record.Record, error) {
	return parseLines(content, "")
}

func parseLines(content, path string) ([]record.Record, error) {
	var records []record.Record
	for lineNo, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		var rec record.Record
		if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
			if path != "" {
				return nil, errors.NewValidationError("%s:%d: %s", path, lineNo+1, err)
			}
			return nil, errors.NewValidationError("line %d: %s", lineNo+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append adds a record to a .qual file, creating the file if needed.
// Records are written one per line with a trailing newline so that
// concatenation (union merges included) always yields a valid file.
func Append(path string, rec record.Record) error {
	data, err := record.MarshalWire(rec)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return errors.Wrapf(err, "append to %s", path)
	}
	return nil
}

// WriteAll replaces a .qual file's contents. Used by compaction.
func WriteAll(path string, records []record.Record) error {
	var buf strings.Builder
	for _, rec := range records {
		data, err := record.MarshalWire(rec)
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// ResolvePath decides which .qual file receives a record for the given
// artifact:
//
//  1. An explicit path always wins (--file override).
//  2. An existing {artifact}.qual keeps the 1:1 layout.
//  3. An existing {parent}/.qual keeps the directory-level layout.
//  4. Otherwise a new {artifact}.qual is used.
//
// Missing parent directories are created.
func ResolvePath(artifact, explicitPath string) (string, error) {
	if explicitPath != "" {
		if dir := filepath.Dir(explicitPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", errors.Wrapf(err, "create %s", dir)
			}
		}
		return explicitPath, nil
	}

	oneToOne := artifact + ".qual"
	if _, err := os.Stat(oneToOne); err == nil {
		return oneToOne, nil
	}

	parent := filepath.Dir(artifact)
	dirQual := filepath.Join(parent, ".qual")
	if _, err := os.Stat(dirQual); err == nil {
		return dirQual, nil
	}

	if parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return "", errors.Wrapf(err, "create %s", parent)
		}
	}
	return oneToOne, nil
}

// FindRecordsFor collects every record about the given artifact across
// all parsed .qual files, matching by the record's subject field.
func FindRecordsFor(artifact string, qualFiles []*QualFile) []record.Record {
	var found []record.Record
	for _, qf := range qualFiles {
		for _, rec := range qf.Records {
			if rec.Subject() == artifact {
				found = append(found, rec)
			}
		}
	}
	return found
}

// FindQualFileFor locates the on-disk .qual file for an artifact: the 1:1
// file first, then the directory-level file. Returns "" when neither
// exists.
func FindQualFileFor(artifact string) string {
	oneToOne := artifact + ".qual"
	if _, err := os.Stat(oneToOne); err == nil {
		return oneToOne
	}

	dirQual := filepath.Join(filepath.Dir(artifact), ".qual")
	if _, err := os.Stat(dirQual); err == nil {
		return dirQual
	}
	return ""
}

// Discover walks the tree under root collecting every .qual file, sorted
// by path for determinism. Hidden directories (.git and friends) are
// skipped, as are directories we lack permission to read.
func Discover(root string) ([]*QualFile, error) {
	var qualFiles []*QualFile

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				logger.Debugw("skipping unreadable path", "path", path)
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".qual") {
			qf, err := Parse(path)
			if err != nil {
				return err
			}
			qualFiles = append(qualFiles, qf)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(qualFiles, func(i, j int) bool {
		return qualFiles[i].Path < qualFiles[j].Path
	})
	return qualFiles, nil
}

// ArtifactName derives the artifact name from a .qual file path:
//
//	src/parser.rs.qual -> src/parser.rs
//	src/.qual          -> src/
func ArtifactName(qualPath string) string {
	if !strings.HasSuffix(qualPath, ".qual") {
		return qualPath
	}
	if filepath.Base(qualPath) == ".qual" {
		dir := filepath.Dir(qualPath)
		if dir == "." {
			return "./"
		}
		return dir + "/"
	}
	return strings.TrimSuffix(qualPath, ".qual")
}
