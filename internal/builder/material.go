package builder

import (
	"fmt"
	"strings"

	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/paths"
)

// createSkeleton creates the synthetic root and the container folder, both
// with fixed IDs.
func (b *builder) createSkeleton() {
	root := &models.TreeNode{
		ID:          RootID,
		Name:        "",
		Type:        models.NodeRoot,
		VirtualPath: "/",
		IsExpanded:  true,
		Origin:      models.OriginNone,
	}
	container := &models.TreeNode{
		ID:          ContainerID,
		Name:        b.opts.RootFolderLabel,
		Type:        models.NodeFolder,
		ParentID:    RootID,
		VirtualPath: "/" + b.opts.RootFolderLabel,
		IsExpanded:  true,
		Origin:      models.OriginNone,
	}
	root.ChildIDs = []string{ContainerID}
	b.data.Nodes[RootID] = root
	b.data.Nodes[ContainerID] = container
}

// materialize creates one top-level folder per surviving anchor and places
// every grouped file beneath it, creating intermediate folders on the way.
func (b *builder) materialize(anchors []string, groups map[string][]realEntry) {
	labels := b.uniqueLabels(anchors)
	container := b.data.Nodes[ContainerID]

	for _, anchor := range anchors {
		origin := models.OriginInferred
		if _, ok := b.selectedSet[b.fold(anchor)]; ok {
			origin = models.OriginDirect
		}
		top := b.findOrCreateFolder(container, labels[anchor],
			b.stripper.Strip(anchor), anchor, anchorID(anchor),
			b.opts.ExpandFoldersByDefault, origin)

		for _, f := range groups[anchor] {
			b.placeFile(top, anchor, f)
		}
	}
}

// placeFile walks the path segments between anchor and file, creating
// interior folders, then creates the file leaf. A leaf whose ID already
// exists is skipped (duplicate guard).
func (b *builder) placeFile(top *models.TreeNode, anchor string, f realEntry) {
	rel := paths.Relative(anchor, f.canonical)
	segments := strings.Split(rel, "/")

	parent := top
	canonical := anchor
	for _, seg := range segments[:len(segments)-1] {
		canonical = paths.Join(canonical, seg)
		parent = b.findOrCreateFolder(parent, seg,
			childSourcePath(parent.SourcePath, seg), canonical, "",
			b.opts.ExpandFoldersByDefault, models.OriginInferred)
	}

	id := fileNodeID(f.entry.ID)
	if _, exists := b.data.Nodes[id]; exists {
		return
	}

	name := f.entry.Name
	if name == "" {
		name = segments[len(segments)-1]
	}
	node := &models.TreeNode{
		ID:          id,
		Name:        name,
		Type:        models.NodeFile,
		ParentID:    parent.ID,
		VirtualPath: paths.Join(parent.VirtualPath, name),
		SourcePath:  b.stripper.Strip(f.canonical),
		EntryID:     f.entry.ID,
		IsSelected:  b.opts.SelectNewFilesByDefault,
		Origin:      models.OriginNone,
	}
	b.data.Nodes[id] = node
	parent.ChildIDs = append(parent.ChildIDs, id)
}

// materializeSelectedDirs guarantees that empty directly-selected
// subdirectories still appear: any selected directory below a top anchor is
// walked into existence, intermediate folders inferred, the leaf direct.
func (b *builder) materializeSelectedDirs(anchors []string) {
	for _, sel := range b.selectedDirs {
		governing := ""
		for _, a := range anchors {
			if paths.IsWithin(a, sel, b.opts.CaseInsensitivePaths) {
				governing = a
				break
			}
		}
		if governing == "" {
			// Reduced universe (AutoComputeAnchors off): hang the selected
			// directory directly under the container.
			b.findOrCreateFolder(b.data.Nodes[ContainerID], anchorLabel(sel),
				b.stripper.Strip(sel), sel, "",
				b.opts.ExpandFoldersByDefault, models.OriginDirect)
			continue
		}
		if b.fold(governing) == b.fold(sel) {
			continue // the anchor folder itself already carries Origin direct
		}

		parent := b.folderForCanonical(governing)
		if parent == nil {
			continue
		}
		canonical := governing
		segments := strings.Split(paths.Relative(governing, sel), "/")
		for i, seg := range segments {
			canonical = paths.Join(canonical, seg)
			origin := models.OriginInferred
			if i == len(segments)-1 {
				origin = models.OriginDirect
			}
			parent = b.findOrCreateFolder(parent, seg,
				childSourcePath(parent.SourcePath, seg), canonical, "",
				b.opts.ExpandFoldersByDefault, origin)
		}
	}
}

// placeVirtualEntries attaches virtual entries under the container, or along
// their normalized virtualParent hint. When merging into real folders is
// enabled the hint is first resolved against the top anchors so a hint
// naming a real directory lands in the real folder.
func (b *builder) placeVirtualEntries(anchors []string, virtuals []models.TreeEntry) {
	for _, e := range virtuals {
		parent := b.data.Nodes[ContainerID]

		hint := strings.TrimSpace(e.VirtualParent())
		if hint != "" {
			hintPath := paths.Canonicalize(hint, nil)
			segments := paths.Segments(hintPath)

			if b.opts.MergeVirtualIntoRealFolders {
				for _, a := range anchors {
					if !paths.IsWithin(a, hintPath, b.opts.CaseInsensitivePaths) {
						continue
					}
					if top := b.folderForCanonical(a); top != nil {
						parent = top
						rel := paths.Relative(a, hintPath)
						if rel == "" {
							segments = nil
						} else {
							segments = strings.Split(rel, "/")
						}
					}
					break
				}
			}

			for _, seg := range segments {
				parent = b.findOrCreateFolder(parent, seg, "", "", "",
					b.opts.ExpandFoldersByDefault, models.OriginInferred)
			}
		}

		id := fileNodeID(e.ID)
		if _, exists := b.data.Nodes[id]; exists {
			continue
		}
		name := e.Name
		if name == "" {
			name = paths.Basename(paths.Canonicalize(e.FullPath, nil))
		}
		node := &models.TreeNode{
			ID:          id,
			Name:        name,
			Type:        models.NodeFile,
			ParentID:    parent.ID,
			VirtualPath: paths.Join(parent.VirtualPath, name),
			EntryID:     e.ID,
			IsVirtual:   true,
			IsSelected:  b.opts.SelectNewFilesByDefault,
			Origin:      models.OriginNone,
		}
		b.data.Nodes[id] = node
		parent.ChildIDs = append(parent.ChildIDs, id)
	}
}

// folderForCanonical finds the folder node registered for a canonical path.
func (b *builder) folderForCanonical(canonical string) *models.TreeNode {
	key := b.fold(canonical)
	for id, c := range b.canonByID {
		if c != "" && b.fold(c) == key {
			return b.data.Nodes[id]
		}
	}
	return nil
}

// findOrCreateFolder resolves a folder child of parent, in order: by forced
// ID, by merging into a mergeable same-named sibling, or by creating a new
// node. The merge policy compares the sibling's remembered canonical path E
// with the incoming canonical path I: both empty merges, both equal under
// the case policy merges, and when MergeVirtualIntoRealFolders is set a
// virtual side adopts the real one.
func (b *builder) findOrCreateFolder(parent *models.TreeNode, name, sourcePath, canonicalSourcePath, forcedID string, expanded bool, origin models.Origin) *models.TreeNode {
	if strings.ContainsRune(name, '/') {
		panic(fmt.Sprintf("builder: folder name contains path separator: %q", name))
	}

	if forcedID != "" {
		if existing, ok := b.data.Nodes[forcedID]; ok {
			if existing.Type != models.NodeFolder {
				panic(fmt.Sprintf("builder: node %s is not a folder", forcedID))
			}
			existing.Name = name
			if sourcePath != "" && sourcePath != existing.SourcePath {
				existing.SourcePath = sourcePath
			}
			existing.IsExpanded = expanded
			existing.Origin = existing.Origin.Merge(origin)
			if canonicalSourcePath != "" && b.canonByID[forcedID] == "" {
				b.canonByID[forcedID] = canonicalSourcePath
				existing.IsVirtual = false
			}
			b.ensureChild(parent, existing)
			return existing
		}
	}

	for _, cid := range parent.ChildIDs {
		sibling := b.data.Nodes[cid]
		if sibling.Type != models.NodeFolder || !b.nameEqual(sibling.Name, name) {
			continue
		}
		e := b.canonByID[cid]
		i := canonicalSourcePath
		switch {
		case e == "" && i == "":
			// Two virtual folders.
		case e != "" && i != "" && b.fold(e) == b.fold(i):
			// Same real directory.
		case b.opts.MergeVirtualIntoRealFolders && i == "" && e != "":
			// Virtual arrival adopts the real folder.
		case b.opts.MergeVirtualIntoRealFolders && i != "" && e == "":
			// Real arrival adopts the virtual folder.
			b.canonByID[cid] = i
			sibling.IsVirtual = false
			if sourcePath != "" {
				sibling.SourcePath = sourcePath
			}
		default:
			continue
		}
		if sibling.SourcePath == "" && sourcePath != "" {
			sibling.SourcePath = sourcePath
		}
		sibling.Origin = sibling.Origin.Merge(origin)
		return sibling
	}

	id := forcedID
	switch {
	case id != "":
	case canonicalSourcePath != "":
		id = sourceFolderID(canonicalSourcePath)
	}
	virtualPath := paths.Join(parent.VirtualPath, name)
	if id == "" {
		id = virtualFolderID(virtualPath)
	}

	if existing, ok := b.data.Nodes[id]; ok {
		// Same canonical identity reached again through another parent.
		b.ensureChild(parent, existing)
		return existing
	}

	node := &models.TreeNode{
		ID:          id,
		Name:        name,
		Type:        models.NodeFolder,
		ParentID:    parent.ID,
		VirtualPath: virtualPath,
		SourcePath:  sourcePath,
		IsVirtual:   canonicalSourcePath == "",
		IsExpanded:  expanded,
		Origin:      origin,
	}
	b.data.Nodes[id] = node
	b.canonByID[id] = canonicalSourcePath
	parent.ChildIDs = append(parent.ChildIDs, id)
	return node
}

// ensureChild makes sure node is listed among parent's children.
func (b *builder) ensureChild(parent, node *models.TreeNode) {
	for _, cid := range parent.ChildIDs {
		if cid == node.ID {
			return
		}
	}
	parent.ChildIDs = append(parent.ChildIDs, node.ID)
	node.ParentID = parent.ID
}

// nameEqual compares folder display names under the case policy.
func (b *builder) nameEqual(a, c string) bool {
	if b.opts.CaseInsensitivePaths {
		return strings.EqualFold(a, c)
	}
	return a == c
}

// childSourcePath extends a parent's display source path by one segment.
func childSourcePath(parentSource, segment string) string {
	if parentSource == "" {
		return ""
	}
	return parentSource + "/" + segment
}
