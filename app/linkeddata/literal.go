package linkeddata

import (
	"context"
	"sort"

	"golang.org/x/text/language"
)

// Literal returns a display value from the first of names that has any.
// Values tagged with one of preferredLangs win, in preference order; a close
// regional match comes next, then the first value. References yield their
// URI.
func (v *View) Literal(ctx context.Context, names []string, preferredLangs []string) (string, bool) {
	for _, name := range names {
		result := v.Get(ctx, name)
		if result.Empty() {
			continue
		}
		if value, ok := result.preferred(preferredLangs); ok {
			return value.String(), true
		}
		return result.Values[0].String(), true
	}
	return "", false
}

func (r Result) preferred(langs []string) (Value, bool) {
	if len(r.Lang) == 0 || len(langs) == 0 {
		return Value{}, false
	}

	for _, l := range langs {
		if values, ok := r.Lang[l]; ok {
			return values[0], true
		}
	}

	keys := make([]string, 0, len(r.Lang))
	for k := range r.Lang {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var supported []language.Tag
	var supportedKeys []string
	for _, k := range keys {
		tag, err := language.Parse(k)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		supportedKeys = append(supportedKeys, k)
	}

	var wanted []language.Tag
	for _, l := range langs {
		if tag, err := language.Parse(l); err == nil {
			wanted = append(wanted, tag)
		}
	}

	if len(supported) == 0 || len(wanted) == 0 {
		return Value{}, false
	}

	_, index, confidence := language.NewMatcher(supported).Match(wanted...)
	if confidence < language.High {
		return Value{}, false
	}
	return r.Lang[supportedKeys[index]][0], true
}

// Image is a picture reference found on a resource.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Image returns the first picture referenced through names without fetching
// anything. With thumbnail set, a foaf:thumbnail of the picture is preferred.
func (v *View) Image(ctx context.Context, names []string, thumbnail bool) (Image, bool) {
	for _, name := range names {
		p := ParsePredicate(name).Offline()
		pictures := v.GetPredicate(ctx, p)
		first, ok := pictures.First()
		if !ok {
			continue
		}

		if first.View == nil {
			return Image{Src: first.Value}, true
		}

		img := Image{Src: first.View.URI()}
		if thumbnail {
			if thumb, ok := first.View.Get(ctx, NoLinkedDataMarker+"foaf_thumbnail").First(); ok {
				img.Src = thumb.String()
			}
		}
		img.Alt, _ = first.View.Literal(ctx, []string{"rdfs_label", "dc_title", "foaf_name", "dc_description"}, nil)
		return img, true
	}
	return Image{}, false
}
