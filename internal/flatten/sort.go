package flatten

import (
	"sort"
	"strings"

	"github.com/starford/arbor/internal/models"
)

// Alphabetical is the provided default SortDelegate: folders before files,
// case-insensitive name ascending, node ID as the tie-break. It matches the
// builder's own child comparator, so using it on an already-sorted tree is
// a no-op reorder.
type Alphabetical struct{}

// SortChildIDs returns the parent's children in the stable order.
func (Alphabetical) SortChildIDs(data *models.TreeData, parentID string) []string {
	parent := data.Nodes[parentID]
	if parent == nil {
		return nil
	}
	ids := append([]string(nil), parent.ChildIDs...)
	sort.SliceStable(ids, func(i, j int) bool {
		ci, cj := data.Nodes[ids[i]], data.Nodes[ids[j]]
		fi, fj := ci.Type == models.NodeFolder, cj.Type == models.NodeFolder
		if fi != fj {
			return fi
		}
		ni, nj := strings.ToLower(ci.Name), strings.ToLower(cj.Name)
		if ni != nj {
			return ni < nj
		}
		return ci.ID < cj.ID
	})
	return ids
}
