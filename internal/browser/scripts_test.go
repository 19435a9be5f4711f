package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	assert.Equal(t, `".card:nth-child(1) a"`, quote(".card:nth-child(1) a"))
	assert.Equal(t, `"a[title=\"x\"]"`, quote(`a[title="x"]`))
}

func TestScripts_EmbedQuotedSelector(t *testing.T) {
	selector := `.com-rigsomelight-devcard:nth-child(2) a[href="#!/x"]`
	quoted := quote(selector)

	for name, script := range map[string]string{
		"count":   countScript(selector),
		"text":    textScript(selector),
		"texts":   textsScript(selector),
		"hasText": hasTextScript(selector),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, script, quoted)
			assert.NotContains(t, script, "%!")
		})
	}
}

func TestCountScript(t *testing.T) {
	assert.Equal(t, `document.querySelectorAll(".item").length`, countScript(".item"))
}
