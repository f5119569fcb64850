package bundle

// AssetInfo describes an emitted asset.
type AssetInfo struct {
	Name string
	Size int
}

// EntrypointInfo lists the files an entrypoint needs, in load order.
type EntrypointInfo struct {
	Name  string
	Files []string
}

// Stats summarises a compilation.
type Stats struct {
	ID          string
	Hash        string
	Assets      []AssetInfo
	Entrypoints []EntrypointInfo
	Errors      []error
}

// newStats must be called after the compilation is hashed, which records
// assets whose size cannot be read.
func newStats(c *Compilation) *Stats {
	s := &Stats{
		ID:     c.ID,
		Hash:   c.Hash,
		Errors: c.Errors(),
	}

	for _, name := range c.Assets.Names() {
		info := AssetInfo{Name: name}
		src, _ := c.Assets.Get(name)

		if data, err := sourceBytes(src); err == nil {
			info.Size = len(data)
		}

		s.Assets = append(s.Assets, info)
	}

	for _, e := range c.Entrypoints {
		s.Entrypoints = append(s.Entrypoints, EntrypointInfo{Name: e.Name, Files: e.Files()})
	}

	return s
}

// HasErrors reports whether the compilation failed.
func (s *Stats) HasErrors() bool {
	return len(s.Errors) > 0
}
