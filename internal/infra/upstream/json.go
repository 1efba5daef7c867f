package upstream

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/seqyank/internal/domain"
)

type namesRequest struct {
	IDs []string `json:"ids"`
}

func namesQuery(ids []domain.QualifiedID) namesRequest {
	out := namesRequest{IDs: make([]string, 0, len(ids))}
	for _, id := range ids {
		out.IDs = append(out.IDs, id.String())
	}
	return out
}

// decodeJSONReport selects report rows with a JSONPath expression. A row is
// either a "DB:ID" string or an object with db/logical_db and id/identifier.
func decodeJSONReport(body []byte, expr, preferredDB string) ([]domain.AnnotationEntry, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("names report is not valid JSON: %w", err)
	}

	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = "$[*]"
	}
	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("names report (%s): jsonpath error: %w", expr, err)
	}

	var rows []any
	switch t := val.(type) {
	case nil:
	case []any:
		rows = t
	default:
		rows = []any{t}
	}

	out := make([]domain.AnnotationEntry, 0, len(rows))
	for i, row := range rows {
		db, id, err := rowID(row)
		if err != nil {
			return nil, fmt.Errorf("names report row %d: %w", i, err)
		}
		out = append(out, domain.NewAnnotationEntry(db, id, preferredDB))
	}
	return out, nil
}

func rowID(row any) (db, id string, err error) {
	switch t := row.(type) {
	case string:
		db, id, ok := strings.Cut(t, ":")
		if !ok || db == "" || id == "" {
			return "", "", fmt.Errorf("%q is not DB:ID", t)
		}
		return db, id, nil
	case map[string]any:
		db = firstString(t, "logical_db", "db")
		id = firstString(t, "identifier", "id")
		if db == "" || id == "" {
			return "", "", fmt.Errorf("object without db and id")
		}
		return db, id, nil
	default:
		return "", "", fmt.Errorf("unsupported value %T", row)
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
