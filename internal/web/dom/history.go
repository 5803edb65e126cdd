//go:build js && wasm

package dom

type history struct{ d *Document }

func (h history) Location() string {
	return DateParam(h.d.window.Get("location").Get("search").String())
}

func (h history) Push(date string) {
	h.d.window.Get("history").Call("pushState", nil, "", DateURL(date))
}

func (h history) Replace(date string) {
	h.d.window.Get("history").Call("replaceState", nil, "", DateURL(date))
}

// Reload hands the date to the server-rendered page.
func (h history) Reload(date string) {
	h.d.window.Get("location").Call("assign", DateURL(date))
}
