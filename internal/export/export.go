// Package export writes the final synthesis of a session as markdown files to
// a local directory or an S3 bucket.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/symphony/pkg/common"
)

const timestampLayout = "20060102_1504"

// File is one exported document.
type File struct {
	Name    string
	Content []byte
}

// Exporter stores a file and returns where it can be found.
type Exporter interface {
	Put(ctx context.Context, file File) (string, error)
}

// SynthesisFiles renders res as markdown files named after the time of the
// export. The attributed file is only produced when attributed content exists.
func SynthesisFiles(res common.BrainstormSynthesis, now time.Time) []File {
	stamp := now.Format(timestampLayout)
	files := []File{{
		Name:    fmt.Sprintf("IdeaSymphony_Synthesis_%s.md", stamp),
		Content: []byte(res.SynthesizedContent),
	}}
	if res.AttributedContent != nil && *res.AttributedContent != "" {
		files = append(files, File{
			Name:    fmt.Sprintf("IdeaSymphony_Synthesis_Attributed_%s.md", stamp),
			Content: []byte(*res.AttributedContent),
		})
	}
	return files
}

// Synthesis exports every file of res and returns their locations in order.
func Synthesis(ctx context.Context, e Exporter, res common.BrainstormSynthesis, now time.Time) ([]string, error) {
	files := SynthesisFiles(res, now)
	locations := make([]string, 0, len(files))
	for _, f := range files {
		loc, err := e.Put(ctx, f)
		if err != nil {
			return locations, fmt.Errorf("export %s: %w", f.Name, err)
		}
		locations = append(locations, loc)
	}
	return locations, nil
}
