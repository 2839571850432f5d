package uri

import "strings"

// SchemeI18N is the scheme whose namespaces are language codes.
const SchemeI18N = "i18n"

// Namespaces returns the namespaces to try for u in order. For i18n URIs this
// is the requested language, its base language, then fallbacks. Other schemes
// only use their own namespace. Duplicates are removed.
func Namespaces(u URI, fallbacks []string) []string {
	if u.Scheme != SchemeI18N {
		return []string{u.Namespace}
	}

	out := make([]string, 0, len(fallbacks)+2)
	seen := make(map[string]bool, cap(out))
	add := func(ns string) {
		ns = strings.ToLower(ns)
		if ns == "" || seen[ns] {
			return
		}
		seen[ns] = true
		out = append(out, ns)
	}

	add(u.Namespace)
	if base, _, ok := strings.Cut(u.Namespace, "-"); ok {
		add(base)
	}
	for _, fb := range fallbacks {
		add(fb)
	}
	return out
}
