package inlineruntime

import "vimagination.zapto.org/inlineruntime/bundle"

// NormalizePublicPath returns the prefix that, joined with a file name,
// gives the URL the HTML plugin uses to reference that file.
func NormalizePublicPath(path *string) string {
	return bundle.NormalizePublicPath(path)
}

func configuredPublicPath(o *bundle.OutputOptions) *string {
	if o == nil {
		return nil
	}

	return o.PublicPath
}
