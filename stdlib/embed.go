// Package stdlib embeds the standard library's .lazy sources into the
// binary, giving the module resolver a link-time-supplied default search
// location per the driver contract's LAZYLANG_PATH fallback rule.
package stdlib

import "embed"

//go:embed *.lazy
var FS embed.FS
