package server

import (
	"time"

	"github.com/matzehuels/ontoforge/pkg/codec"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/storage"
	"github.com/matzehuels/ontoforge/pkg/validation"
	"github.com/matzehuels/ontoforge/pkg/vocabulary"
)

// =============================================================================
// Requests
// =============================================================================

type nameRequest struct {
	Name string `json:"name" validate:"omitempty,max=200"`
}

type metadataRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Version     *string `json:"version"`
	Namespace   *string `json:"namespace" validate:"omitempty,uri"`
	Author      *string `json:"author"`
}

type viewportRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom" validate:"gt=0"`
}

type propertyRequest struct {
	Value any `json:"value"`
}

type dropRequest struct {
	Kind string  `json:"kind" validate:"required,oneof=entity data_property note external_reference"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type nodePatchRequest struct {
	Position    *codec.PositionDoc  `json:"position"`
	Label       *string             `json:"label"`
	EntityType  *string             `json:"entityType"`
	Description *string             `json:"description"`
	Properties  ontology.Properties `json:"properties"`
	Content     *string             `json:"content"`
	NoteType    *string             `json:"noteType" validate:"omitempty,oneof=general todo question decision reference"`
	Author      *string             `json:"author"`
	Source      *string             `json:"source"`

	// Debounce queues the data fields instead of applying them now.
	Debounce bool `json:"debounce"`
}

type connectRequest struct {
	Source           string `json:"source" validate:"required"`
	Target           string `json:"target" validate:"required"`
	RelationshipType string `json:"relationshipType" validate:"omitempty,max=100"`
}

type edgePatchRequest struct {
	Source           *string             `json:"source" validate:"omitempty,min=1"`
	Target           *string             `json:"target" validate:"omitempty,min=1"`
	RelationshipType *string             `json:"relationshipType" validate:"omitempty,min=1"`
	Properties       ontology.Properties `json:"properties"`
	Strength         *float64            `json:"strength" validate:"omitempty,gte=0,lte=1"`
	IsInferred       *bool               `json:"isInferred"`
	Debounce         bool                `json:"debounce"`
}

type typeRequest struct {
	Token string `json:"token" validate:"required,max=100"`
}

type selectionRequest struct {
	Nodes []string `json:"nodes" validate:"dive,required"`
	Edges []string `json:"edges" validate:"dive,required"`
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=diagram text"`
}

type textRequest struct {
	Content string `json:"content"`
}

type formatRequest struct {
	Format string `json:"format" validate:"required"`
}

// =============================================================================
// Responses
// =============================================================================

type workspaceResponse struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Author        string                 `json:"author,omitempty"`
	Created       time.Time              `json:"created"`
	Collaborators []storage.Collaborator `json:"collaborators"`
	ActiveID      string                 `json:"activeId,omitempty"`
}

type ontologySummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Nodes        int       `json:"nodes"`
	Edges        int       `json:"edges"`
	LastModified time.Time `json:"lastModified"`
	Active       bool      `json:"active"`
}

func summarize(o *ontology.Ontology, activeID string) ontologySummary {
	return ontologySummary{
		ID:           o.ID,
		Name:         o.Name,
		Nodes:        len(o.Nodes),
		Edges:        len(o.Edges),
		LastModified: o.LastModified,
		Active:       o.ID == activeID,
	}
}

type typeInfo struct {
	Token       string `json:"token"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Dashed      bool   `json:"dashed,omitempty"`
	Color       string `json:"color,omitempty"`
	Custom      bool   `json:"custom"`
}

func toTypeInfo(i vocabulary.Info) typeInfo {
	return typeInfo{
		Token:       i.Type.Token(),
		Label:       i.Label,
		Description: i.Description,
		Dashed:      i.Style.Dashed,
		Color:       i.Style.Color,
		Custom:      i.Custom,
	}
}

type connectResponse struct {
	Edge    *codec.EdgeDoc `json:"edge,omitempty"`
	Pending *pendingDoc    `json:"pending,omitempty"`
}

type pendingDoc struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type issueDoc struct {
	ElementID    string `json:"elementId,omitempty"`
	ElementLabel string `json:"elementLabel,omitempty"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
}

type suggestionDoc struct {
	Message string `json:"message"`
	Fixable bool   `json:"fixable"`
}

type reportResponse struct {
	IsValid     bool            `json:"isValid"`
	Errors      []issueDoc      `json:"errors"`
	Warnings    []issueDoc      `json:"warnings"`
	Suggestions []suggestionDoc `json:"suggestions"`
}

func toReport(r *validation.Report) reportResponse {
	issues := func(in []validation.Issue) []issueDoc {
		out := make([]issueDoc, len(in))
		for i, is := range in {
			out[i] = issueDoc{
				ElementID:    is.ElementID,
				ElementLabel: is.ElementLabel,
				Severity:     string(is.Severity),
				Message:      is.Message,
			}
		}
		return out
	}
	sugg := make([]suggestionDoc, len(r.Suggestions))
	for i, sg := range r.Suggestions {
		sugg[i] = suggestionDoc{Message: sg.Message, Fixable: sg.Fixable()}
	}
	return reportResponse{
		IsValid:     r.IsValid,
		Errors:      issues(r.Errors),
		Warnings:    issues(r.Warnings),
		Suggestions: sugg,
	}
}

type selectionResponse struct {
	Mode  string   `json:"mode"`
	Nodes []string `json:"nodes"`
	Edges []string `json:"edges"`
}

type viewResponse struct {
	Mode       string   `json:"mode"`
	IsSync     bool     `json:"isSync"`
	Text       string   `json:"text"`
	TextFormat string   `json:"textFormat"`
	Formats    []string `json:"formats"`
}

type countResponse struct {
	Count int `json:"count"`
}
