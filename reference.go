package inlineruntime

import "vimagination.zapto.org/inlineruntime/bundle"

// RuntimeReference pairs a runtime chunk file with the URL it is loaded from.
type RuntimeReference struct {
	File string
	URL  string
}

// CollectRuntimeReferences lists the files of each entrypoint's runtime
// chunk, in entrypoint order. Entrypoints without a separate runtime chunk
// are skipped.
func CollectRuntimeReferences(publicPath string, entrypoints []*bundle.Entrypoint) []RuntimeReference {
	var refs []RuntimeReference

	for _, e := range entrypoints {
		rc := e.RuntimeChunk()
		if rc == nil {
			continue
		}

		for _, file := range rc.Files {
			refs = append(refs, RuntimeReference{File: file, URL: publicPath + file})
		}
	}

	return refs
}

func findReference(refs []RuntimeReference, url string) (RuntimeReference, bool) {
	for _, ref := range refs {
		if ref.URL == url {
			return ref, true
		}
	}

	return RuntimeReference{}, false
}
