package bundle

import (
	"encoding/base64"
	"fmt"
	"path"
	"regexp"

	"github.com/KarpelesLab/pjson"
)

var devtoolPattern = regexp.MustCompile(`^(?:(eval|inline|hidden)-)?(nosources-)?(?:cheap-(?:module-)?)?source-map$`)

type devtool struct {
	sourceMap bool
	eval      bool
	inline    bool
	hidden    bool
	noSources bool
}

func parseDevtool(s string) (devtool, error) {
	switch s {
	case "", "false":
		return devtool{}, nil
	case "eval":
		return devtool{eval: true}, nil
	}

	m := devtoolPattern.FindStringSubmatch(s)
	if m == nil {
		return devtool{}, fmt.Errorf("%q: %w", s, ErrInvalidDevtool)
	}

	return devtool{
		sourceMap: true,
		eval:      m[1] == "eval",
		inline:    m[1] == "inline",
		hidden:    m[1] == "hidden",
		noSources: m[2] != "",
	}, nil
}

type sourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

type origin struct {
	name    string
	content string
}

// attach adds a source map for file to code according to the devtool,
// returning the code to emit and the map asset, if one is to be emitted.
func (d devtool) attach(file, code string, origins []origin) (string, []byte, error) {
	if !d.sourceMap || d.eval {
		return code, nil, nil
	}

	sm := sourceMap{
		Version:  3,
		File:     path.Base(file),
		Sources:  make([]string, 0, len(origins)),
		Names:    []string{},
		Mappings: "",
	}

	for _, o := range origins {
		sm.Sources = append(sm.Sources, "bundle:///"+o.name)

		if !d.noSources {
			sm.SourcesContent = append(sm.SourcesContent, o.content)
		}
	}

	data, err := pjson.Marshal(sm)
	if err != nil {
		return "", nil, fmt.Errorf("error encoding source map for %s: %w", file, err)
	}

	switch {
	case d.inline:
		return code + "\n//# sourceMappingURL=data:application/json;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data), nil, nil
	case d.hidden:
		return code, data, nil
	}

	return code + "\n//# sourceMappingURL=" + path.Base(file) + ".map", data, nil
}
