package inlineruntime_test

import (
	"context"
	"fmt"
	"strings"
	"testing/fstest"

	"vimagination.zapto.org/inlineruntime"
	"vimagination.zapto.org/inlineruntime/bundle"
	"vimagination.zapto.org/inlineruntime/htmlplugin"
)

func Example() {
	files := fstest.MapFS{
		"src/main.js":  {Data: []byte(`console.log("main");`)},
		"src/admin.js": {Data: []byte(`console.log("admin");`)},
	}
	out := bundle.NewMemFS()
	publicPath := "/static"
	c := bundle.New(bundle.Options{
		Entry: []bundle.Entry{
			{Name: "main", Import: "src/main.js"},
			{Name: "admin", Import: "src/admin.js"},
		},
		Output: &bundle.OutputOptions{
			Path:       "/www",
			PublicPath: &publicPath,
		},
		Optimization: bundle.OptimizationOptions{
			RuntimeChunk: bundle.RuntimeChunkSingle,
		},
		Devtool: "source-map",
	}, bundle.InputFS(files), bundle.OutputFS(out), bundle.Plugins(
		htmlplugin.New(htmlplugin.Options{}),
		inlineruntime.New(inlineruntime.RemoveSourceMap),
	))

	if _, err := c.Run(context.Background()); err != nil {
		fmt.Println(err)

		return
	}

	doc, _ := out.ReadFile("/www/index.html")

	fmt.Println(strings.Count(string(doc), "<script>"))
	fmt.Println(strings.Count(string(doc), `<script src="/static/`))
	fmt.Println(strings.Contains(string(doc), bundle.RuntimeMarker))
	fmt.Println(strings.Contains(string(doc), "sourceMappingURL"))

	// Output:
	// 1
	// 2
	// true
	// false
}

func ExampleNormalizePublicPath() {
	for _, path := range []string{"", "auto", "/assets", "/assets/"} {
		fmt.Printf("%q\n", inlineruntime.NormalizePublicPath(&path))
	}

	fmt.Printf("%q\n", inlineruntime.NormalizePublicPath(nil))

	// Output:
	// ""
	// ""
	// "/assets/"
	// "/assets/"
	// ""
}
