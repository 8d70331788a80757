package mcpserver

// TreeRowContract describes the flattened row format returned by the tree
// tools, so LLM consumers can parse the outline deterministically.
const TreeRowContract = `# Arbor Tree Row Format

The get_tree and search_tree tools return one row per visible node, in
depth-first order:

` + "```" + `
<indent><marker> <name>    [<node-id>]
` + "```" + `

## Fields

1. **indent** - two spaces per depth level. Depth 0 rows start at column 0.
2. **marker** - "+" for a folder that has children, "-" for a folder without,
   "." for a file.
3. **name** - the display label. Never contains "/".
4. **node-id** - the stable node identifier in square brackets. IDs depend
   only on canonical paths and entry IDs, so they remain valid across
   rebuilds; pass them to read_node, expand_node, and collapse_node.

## Rules

1. A collapsed folder's descendants are omitted; the folder row itself still
   shows the "+" marker when children exist.
2. search_tree surfaces every match together with its ancestor chain, even
   under collapsed folders.
3. Filter queries AND whitespace-separated terms: plain terms are
   case-insensitive substring tests, "!term" negates, "ext:go" matches the
   file extension.
`
