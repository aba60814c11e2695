// Package backup serializes the category and participant collections to a
// single JSON document and back.
//
// The document shape is {"categories": [...], "participants": [...]}.
// Import validates the document against an embedded CUE schema before
// touching the store, and resets every participant's license number to
// the empty string: backups travel between machines and the license is
// the one personal identifier the file must not carry forward.
package backup

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/opencourse/opencourse/internal/race"
	"github.com/opencourse/opencourse/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// Document is the backup file payload.
type Document struct {
	Categories   []*race.Category    `json:"categories"`
	Participants []*race.Participant `json:"participants"`
}

// Export writes the category and participant collections to w as an
// indented JSON document. Courses and results are deliberately not part
// of a backup; they belong to one race day.
func Export(ctx context.Context, st *store.Store, w io.Writer) error {
	categories, err := st.Categories(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	participants, err := st.Participants(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Categories: categories, Participants: participants}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// Import validates and loads a backup document, inserting its categories
// and participants with their ids preserved. License numbers are blanked
// on the way in. Returns the number of categories and participants
// inserted.
//
// Validation happens before any insert, so a malformed file leaves the
// store untouched. Inserts themselves are independent operations: a
// failure midway (typically an id or name collision with existing data)
// leaves the earlier inserts in place.
func Import(ctx context.Context, st *store.Store, r io.Reader) (categories, participants int, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, 0, fmt.Errorf("import: %w", err)
	}

	if err := validate(raw); err != nil {
		return 0, 0, fmt.Errorf("import: invalid backup document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, 0, fmt.Errorf("import: %w", err)
	}

	for _, c := range doc.Categories {
		if err := st.InsertCategory(ctx, c); err != nil {
			return categories, participants, fmt.Errorf("import: %w", err)
		}
		categories++
	}
	for _, p := range doc.Participants {
		p.License = ""
		if err := st.InsertParticipant(ctx, p); err != nil {
			return categories, participants, fmt.Errorf("import: %w", err)
		}
		participants++
	}
	return categories, participants, nil
}

// validate unifies the raw JSON with the embedded schema.
func validate(raw []byte) error {
	cctx := cuecontext.New()

	schema := cctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	expr, err := cuejson.Extract("backup.json", raw)
	if err != nil {
		return err
	}
	value := cctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return err
	}

	return schema.Unify(value).Validate(cue.Concrete(true))
}
