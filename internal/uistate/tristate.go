package uistate

import "github.com/starford/arbor/internal/models"

// State is the tri-state value of a folder checkbox.
type State string

// Tri-state values.
const (
	Checked   State = "checked"
	Unchecked State = "unchecked"
	Mixed     State = "mixed"
)

// FolderState derives a folder's checkbox state from the selection of its
// file descendants: all selected is Checked, none is Unchecked, otherwise
// Mixed. A folder without file descendants reports Unchecked.
func FolderState(data *models.TreeData, folderID string, selected *SelectionSet) State {
	total, picked := 0, 0
	var walk func(id string)
	walk = func(id string) {
		n := data.Nodes[id]
		if n == nil {
			return
		}
		if n.Type == models.NodeFile {
			total++
			if selected.Has(n.ID) {
				picked++
			}
			return
		}
		for _, cid := range n.ChildIDs {
			walk(cid)
		}
	}
	walk(folderID)

	switch {
	case total == 0 || picked == 0:
		return Unchecked
	case picked == total:
		return Checked
	default:
		return Mixed
	}
}
