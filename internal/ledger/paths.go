package ledger

import "path/filepath"

// DefaultDir returns the ledger directory used when the CLI's
// --ledger-dir flag is left unset: a `.ledger` subdirectory of the
// analysis root.
func DefaultDir(root string) string {
	return filepath.Join(root, ".ledger")
}
