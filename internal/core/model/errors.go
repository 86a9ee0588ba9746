package model

import (
	"fmt"
	"strings"
)

// MalformedEntryError reports a response entry that violates the gene schema.
type MalformedEntryError struct {
	Entry  string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed entry for gene (%s): %s", e.Reason, e.Entry)
}

// MissingEntitiesError lists requested genes absent from a response.
type MissingEntitiesError struct {
	Genes []string
}

func (e *MissingEntitiesError) Error() string {
	return fmt.Sprintf("model response missing genes: [%s]", strings.Join(e.Genes, ", "))
}

// DuplicateEntityError reports a gene validated more than once in one run.
type DuplicateEntityError struct {
	Gene string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("gene %s appears in more than one validated entry", e.Gene)
}
