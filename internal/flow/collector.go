package flow

import (
	"github.com/google/uuid"

	"github.com/harmos/intakebot/internal/models"
)

// FileCollector stages candidate files for the free-content step. Files are
// held client-side semantics: added on select/drop, removed on explicit
// removal, read exactly once by the submission pipeline. The collector is
// the only writer of the staged list.
type FileCollector struct {
	files []models.StagedFile
}

// NewFileCollector creates an empty collector.
func NewFileCollector() *FileCollector {
	return &FileCollector{}
}

// Stage adds a file to the staged list. Files over the per-file boundary cap
// are rejected here rather than at submit time so the candidate learns
// immediately.
func (c *FileCollector) Stage(name, mime string, content []byte) (models.StagedFile, error) {
	if int64(len(content)) > models.MaxFileBytes {
		return models.StagedFile{}, models.ErrFileTooLarge
	}
	f := models.StagedFile{
		ID:      uuid.NewString(),
		Name:    name,
		Size:    int64(len(content)),
		MIME:    mime,
		Content: content,
	}
	c.files = append(c.files, f)
	return f, nil
}

// Unstage removes a previously staged file by ID.
func (c *FileCollector) Unstage(id string) error {
	for i := range c.files {
		if c.files[i].ID == id {
			c.files = append(c.files[:i], c.files[i+1:]...)
			return nil
		}
	}
	return models.ErrStagedFileUnknown
}

// Files returns the staged files in staging order.
func (c *FileCollector) Files() []models.StagedFile {
	out := make([]models.StagedFile, len(c.files))
	copy(out, c.files)
	return out
}
