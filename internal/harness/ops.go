package harness

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/quire/internal/mdtext"
	"github.com/roach88/quire/internal/session"
)

// opFunc executes one op against the harness session.
type opFunc func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error)

// ops maps op names to their implementations.
var ops = map[string]opFunc{
	"update": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		text, err := stringArg(args, "text", true)
		if err != nil {
			return nil, err
		}
		return changed(h.session.UpdateContent(text)), nil
	},
	"undo": func(_ context.Context, h *Harness, _ map[string]interface{}) (map[string]interface{}, error) {
		return changed(h.session.Undo()), nil
	},
	"redo": func(_ context.Context, h *Harness, _ map[string]interface{}) (map[string]interface{}, error) {
		return changed(h.session.Redo()), nil
	},
	"create": func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		title, err := stringArg(args, "title", false)
		if err != nil {
			return nil, err
		}
		doc, err := h.session.CreateDocument(ctx, title)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"id": doc.ID, "title": doc.Title}, nil
	},
	"switch": func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		id, err := stringArg(args, "id", true)
		if err != nil {
			return nil, err
		}
		return nil, h.session.SwitchDocument(ctx, id)
	},
	"delete": func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		id, err := stringArg(args, "id", true)
		if err != nil {
			return nil, err
		}
		return nil, h.session.DeleteDocument(ctx, id)
	},
	"rename": func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		id, err := stringArg(args, "id", true)
		if err != nil {
			return nil, err
		}
		title, err := stringArg(args, "title", true)
		if err != nil {
			return nil, err
		}
		return nil, h.session.RenameDocument(ctx, id, title)
	},
	"title": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		title, err := stringArg(args, "title", true)
		if err != nil {
			return nil, err
		}
		h.session.SetTitle(title)
		return nil, nil
	},
	"tag": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		tag, err := stringArg(args, "tag", true)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"added": h.session.AddTag(tag)}, nil
	},
	"untag": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		tag, err := stringArg(args, "tag", true)
		if err != nil {
			return nil, err
		}
		return nil, h.session.RemoveTag(tag)
	},
	"save": func(ctx context.Context, h *Harness, _ map[string]interface{}) (map[string]interface{}, error) {
		return nil, h.session.Save(ctx)
	},
	"snapshot": func(ctx context.Context, h *Harness, _ map[string]interface{}) (map[string]interface{}, error) {
		snap, err := h.session.CreateSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"id": snap.ID, "title": snap.Title}, nil
	},
	"restore": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		id, err := stringArg(args, "id", true)
		if err != nil {
			return nil, err
		}
		return nil, h.session.RestoreSnapshot(id)
	},
	"drop_snapshot": func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		id, err := stringArg(args, "id", true)
		if err != nil {
			return nil, err
		}
		return nil, h.session.DeleteSnapshot(ctx, id)
	},
	"export": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		format, err := stringArg(args, "format", true)
		if err != nil {
			return nil, err
		}
		out, err := h.session.ExportAs(format)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"output": out}, nil
	},
	"render": func(_ context.Context, h *Harness, _ map[string]interface{}) (map[string]interface{}, error) {
		return map[string]interface{}{"html": h.session.HTML()}, nil
	},
	"template": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		kind, err := stringArg(args, "kind", true)
		if err != nil {
			return nil, err
		}
		ok, err := h.session.InsertTemplate(kind)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"inserted": ok}, nil
	},
	"format": func(_ context.Context, h *Harness, _ map[string]interface{}) (map[string]interface{}, error) {
		return changed(h.session.FormatDocument()), nil
	},
	"replace": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		pattern, err := stringArg(args, "pattern", false)
		if err != nil {
			return nil, err
		}
		replacement, err := stringArg(args, "replacement", false)
		if err != nil {
			return nil, err
		}
		var opts mdtext.ReplaceOptions
		if opts.CaseSensitive, err = boolArg(args, "case_sensitive"); err != nil {
			return nil, err
		}
		if opts.WholeWord, err = boolArg(args, "whole_word"); err != nil {
			return nil, err
		}
		if opts.UseRegex, err = boolArg(args, "regex"); err != nil {
			return nil, err
		}
		ok, err := h.session.SearchAndReplace(pattern, replacement, opts)
		if err != nil {
			return nil, err
		}
		return changed(ok), nil
	},
	"import_markdown": func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		text, err := stringArg(args, "text", true)
		if err != nil {
			return nil, err
		}
		return nil, h.session.ImportMarkdown(ctx, text)
	},
	"import_html": func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		html, err := stringArg(args, "html", true)
		if err != nil {
			return nil, err
		}
		return nil, h.session.ImportHTML(ctx, html)
	},
	"clear": func(ctx context.Context, h *Harness, _ map[string]interface{}) (map[string]interface{}, error) {
		return nil, h.session.ClearContent(ctx)
	},
	"stats": func(_ context.Context, h *Harness, _ map[string]interface{}) (map[string]interface{}, error) {
		st := h.session.Stats()
		return map[string]interface{}{
			"characters":   st.Characters,
			"words":        st.Words,
			"lines":        st.Lines,
			"paragraphs":   st.Paragraphs,
			"reading_time": st.ReadingTime,
		}, nil
	},
	"outline": func(_ context.Context, h *Harness, _ map[string]interface{}) (map[string]interface{}, error) {
		var titles []interface{}
		var walk func([]*mdtext.Heading)
		walk = func(hs []*mdtext.Heading) {
			for _, hd := range hs {
				titles = append(titles, hd.Title)
				walk(hd.Children)
			}
		}
		roots := h.session.Structure()
		walk(roots)
		return map[string]interface{}{"roots": len(roots), "headings": titles}, nil
	},
	"theme": func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		id, err := stringArg(args, "id", true)
		if err != nil {
			return nil, err
		}
		return nil, h.session.SetTheme(ctx, id)
	},
	"settings": func(ctx context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		settings := h.session.Settings()
		// Round-trip through YAML so only the named fields change.
		raw, err := yaml.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("encode settings args: %w", err)
		}
		if err := yaml.Unmarshal(raw, &settings); err != nil {
			return nil, fmt.Errorf("decode settings args: %w", err)
		}
		return nil, h.session.UpdateSettings(ctx, settings)
	},
	"advance": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		raw, err := stringArg(args, "duration", true)
		if err != nil {
			return nil, err
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
		h.clock.Advance(d)
		return map[string]interface{}{"dirty": h.session.Dirty()}, nil
	},
	"fail_saves": func(_ context.Context, h *Harness, args map[string]interface{}) (map[string]interface{}, error) {
		fail, err := boolArg(args, "fail")
		if err != nil {
			return nil, err
		}
		h.kv.FailSets(fail)
		return nil, nil
	},
}

// Ops returns the supported op names in sorted order.
func Ops() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func changed(ok bool) map[string]interface{} {
	return map[string]interface{}{"changed": ok}
}

func stringArg(args map[string]interface{}, key string, required bool) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing arg %q", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("arg %q must be a string, got %T", key, v)
	}
	return s, nil
}

func boolArg(args map[string]interface{}, key string) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("arg %q must be a bool, got %T", key, v)
	}
	return b, nil
}

// sessionState flattens the observable session state into the tables
// final_state assertions read.
func sessionState(s *session.Session) map[string]interface{} {
	working := s.Working()
	index, length := s.HistoryIndex()

	docs := s.Documents()
	docRows := make([]map[string]interface{}, len(docs))
	for i, d := range docs {
		docRows[i] = map[string]interface{}{
			"id":      d.ID,
			"title":   d.Title,
			"content": d.Content,
			"tags":    stringsToAny(d.Tags),
		}
	}

	snaps := s.Snapshots()
	snapRows := make([]map[string]interface{}, len(snaps))
	for i, sn := range snaps {
		snapRows[i] = map[string]interface{}{
			"id":      sn.ID,
			"title":   sn.Title,
			"summary": sn.Summary,
			"content": sn.Content,
		}
	}

	return map[string]interface{}{
		TableSession: map[string]interface{}{
			"content":          working.Content,
			"title":            working.Title,
			"tags":             stringsToAny(working.Tags),
			"active_id":        s.ActiveID(),
			"dirty":            s.Dirty(),
			"can_undo":         s.CanUndo(),
			"can_redo":         s.CanRedo(),
			"history_index":    index,
			"history_length":   length,
			"document_count":   len(docs),
			"snapshot_count":   len(snaps),
			"theme":            s.Theme().ID,
			"autosave_running": s.AutosaveRunning(),
			"autosave_pending": s.AutosavePending(),
		},
		TableDocuments: docRows,
		TableSnapshots: snapRows,
	}
}

func stringsToAny(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
