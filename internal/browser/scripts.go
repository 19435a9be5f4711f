package browser

import (
	"encoding/json"
	"fmt"
)

// quote renders s as a JavaScript string literal
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func countScript(selector string) string {
	return fmt.Sprintf(`document.querySelectorAll(%s).length`, quote(selector))
}

func textScript(selector string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	return el ? {found: true, text: el.innerText || el.textContent || ""} : {found: false, text: ""};
})()`, quote(selector))
}

func textsScript(selector string) string {
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s), el => el.innerText || el.textContent || "")`, quote(selector))
}

func hasTextScript(selector string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	return !!el && (el.innerText || el.textContent || "").trim().length > 0;
})()`, quote(selector))
}

// textResult is the value textScript evaluates to
type textResult struct {
	Found bool   `json:"found"`
	Text  string `json:"text"`
}
