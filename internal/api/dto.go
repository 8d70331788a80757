package api

import (
	"github.com/starford/arbor/internal/listdiff"
	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/treeservice"
)

// TreeSummary is the overview response for GET /tree.
type TreeSummary = treeservice.Summary

// FlatResponse wraps the flattened rows.
type FlatResponse struct {
	Rows []models.VisibleNode `json:"rows"`
}

// DiffResponse wraps the flattened rows plus the minimal delta against the
// previously served flatten.
type DiffResponse struct {
	Rows        []models.VisibleNode `json:"rows"`
	RemovesDesc []int                `json:"removes_desc"`
	InsertsAsc  []int                `json:"inserts_asc"`
}

func newDiffResponse(rows []models.VisibleNode, delta listdiff.Result) DiffResponse {
	resp := DiffResponse{
		Rows:        rows,
		RemovesDesc: delta.RemovesDesc,
		InsertsAsc:  delta.InsertsAsc,
	}
	if resp.RemovesDesc == nil {
		resp.RemovesDesc = []int{}
	}
	if resp.InsertsAsc == nil {
		resp.InsertsAsc = []int{}
	}
	return resp
}

// SelectionResponse reports a folder's tri-state checkbox value.
type SelectionResponse struct {
	State string `json:"state" example:"mixed"`
}
