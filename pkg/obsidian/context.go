package obsidian

// RecursionLimit bounds how deep an embed chain may nest before the
// exporter gives up. There is no cycle detection: a vault with a genuine
// note-embeds-itself loop is expected to hit this limit rather than spin
// forever, and the caller is told the full chain via RecursionLimitExceededError.
const RecursionLimit = 10

// Context carries the state threaded through a single note's processing,
// and through every note it recursively embeds. It is immutable with
// respect to the file tree (ChildContext always allocates a fresh slice) but
// Destination and Frontmatter are mutated in place by postprocessors as a
// note is processed.
type Context struct {
	fileTree    []string
	Destination string
	Frontmatter Frontmatter
}

// NewContext starts a new, top-level processing context for rootFile,
// which will be written to destination.
func NewContext(rootFile, destination string) *Context {
	return &Context{
		fileTree:    []string{rootFile},
		Destination: destination,
		Frontmatter: NewFrontmatter(),
	}
}

// ChildContext derives a context for an embedded note at child, extending
// parent's file tree. The returned context shares no mutable state with
// parent: Destination is copied from parent and Frontmatter starts empty
// for the embedded note.
func ChildContext(parent *Context, child string) *Context {
	tree := make([]string, len(parent.fileTree)+1)
	copy(tree, parent.fileTree)
	tree[len(parent.fileTree)] = child

	return &Context{
		fileTree:    tree,
		Destination: parent.Destination,
		Frontmatter: NewFrontmatter(),
	}
}

// InFileTree reports whether path is already part of the current
// processing chain, i.e. an embed would recurse into a note that is
// already one of its own ancestors.
func (c *Context) InFileTree(path string) bool {
	for _, p := range c.fileTree {
		if p == path {
			return true
		}
	}
	return false
}

// CurrentFile returns the file currently being processed: the last entry
// in the file tree.
func (c *Context) CurrentFile() string {
	return c.fileTree[len(c.fileTree)-1]
}

// RootFile returns the top-level file that started this processing chain.
// Link relativity is always computed against this file's directory, never
// CurrentFile's, so that links remain correct after embeds are inlined.
func (c *Context) RootFile() string {
	return c.fileTree[0]
}

// NoteDepth returns how deeply nested the current file is: 0 for the root
// file, 1 for a note it directly embeds, and so on.
func (c *Context) NoteDepth() int {
	return len(c.fileTree) - 1
}

// FileTree returns the ordered chain of files from root to current. The
// returned slice must not be mutated by the caller.
func (c *Context) FileTree() []string {
	return c.fileTree
}
