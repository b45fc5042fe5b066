package storage_test

import (
	"strings"
	"testing"
	"time"

	"github.com/inbucket/mailview/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMetadata(t *testing.T) {
	date := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	tests := []struct {
		name   string
		header string
		want   storage.Metadata
	}{
		{
			name: "all fields",
			header: "From: Jane Doe <jane@example.com>\r\n" +
				"Subject: hello\r\n" +
				"Date: Thu, 04 Mar 2021 05:06:07 +0000\r\n",
			want: storage.Metadata{
				From:    `"Jane Doe" <jane@example.com>`,
				Subject: "hello",
				Date:    date.In(time.Local).Format(storage.DateFormat),
			},
		},
		{
			name: "encoded subject",
			header: "From: jane@example.com\r\n" +
				"Subject: =?UTF-8?Q?Caf=C3=A9_report?=\r\n",
			want: storage.Metadata{
				From:    "<jane@example.com>",
				Subject: "Café report",
			},
		},
		{
			name:   "unparsable date kept raw",
			header: "Date: sometime yesterday\r\n",
			want:   storage.Metadata{Date: "sometime yesterday"},
		},
		{
			name:   "unparsable from kept raw",
			header: "From: not an address\r\n",
			want:   storage.Metadata{From: "not an address"},
		},
		{
			name:   "no headers",
			header: "",
			want:   storage.Metadata{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := storage.ReadMetadata(strings.NewReader(tc.header + "\r\nbody\r\n"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
		})
	}
}
