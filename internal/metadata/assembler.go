package metadata

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"sigs.k8s.io/yaml"
)

// Assembler turns a content hash into the descriptive document merged into a
// catalog entry.
type Assembler struct {
	fetcher Fetcher
}

func NewAssembler(fetcher Fetcher) *Assembler {
	return &Assembler{fetcher: fetcher}
}

// Assemble fetches and parses the document for a content hash. Payloads may
// be JSON or YAML. declaredName is the asset name the operation parameters
// claim; a mismatch against the document's own name is an integrity warning,
// not an abort — the operation-parameter name stays ground truth.
func (a *Assembler) Assemble(ctx context.Context, contentHash, declaredName string) (map[string]any, error) {
	payload, err := a.fetcher.Fetch(ctx, contentHash)
	if err != nil {
		return nil, err
	}

	jsonPayload, err := yaml.YAMLToJSON(payload)
	if err != nil {
		return nil, ErrInvalidDocument.MsgErr("payload is neither JSON nor YAML", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(jsonPayload, &doc); err != nil {
		return nil, ErrInvalidDocument.Err(err)
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	if name, ok := doc["name"].(string); ok && declaredName != "" && name != declaredName {
		log.Ctx(ctx).Warn().
			Str("declaredName", declaredName).
			Str("documentName", name).
			Str("hash", contentHash).
			Msg("name mismatch between operation parameters and metadata document")
	}

	return doc, nil
}

// Merge attaches the document to an entry. Core entry columns always win over
// document keys, so a hostile document cannot clobber owner or price.
func Merge(entry *catalog.Entry, doc map[string]any) {
	if doc == nil {
		return
	}
	if entry.Document == nil {
		entry.Document = make(map[string]any, len(doc))
	}
	for k, v := range doc {
		entry.Document[k] = v
	}
}
