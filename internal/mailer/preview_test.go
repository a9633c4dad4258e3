package mailer

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewRendersSendableGroups(t *testing.T) {
	results, _ := verifyFixture(t,
		[][]string{
			{"a@x.com", "110001", "cc@x.com", ""},
			{"ghost@x.com", "220001", "", ""},
		},
		map[string][]string{"a@x.com": {"MU_110001.xlsx"}},
	)

	var out bytes.Buffer
	require.NoError(t, Preview(results, &out))

	s := out.String()
	assert.Contains(t, s, "收件人: a@x.com")
	assert.Contains(t, s, "MU_110001_白名单新增")
	assert.Contains(t, s, "MU_110001.xlsx")
	assert.Contains(t, s, "经理，您好")
	// recipients without a folder are not previewed
	assert.NotContains(t, s, "ghost@x.com")
}

func TestPreviewAbortsOnMixedPrefixes(t *testing.T) {
	// one file per carrier, both matching the same agreement id
	results, _ := verifyFixture(t,
		[][]string{
			{"a@x.com", "110001", "", ""},
		},
		map[string][]string{"a@x.com": {"CA_110001.xlsx", "MU_110001.xlsx"}},
	)

	err := Preview(results, io.Discard)
	require.ErrorIs(t, err, ErrPrefixMismatch)
}
