package message_test

import (
	"errors"
	"testing"

	"github.com/inbucket/mailview/pkg/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree builds:
//
//	root
//	├── 0 text/plain "a"
//	└── 1 multipart/alternative
//	    ├── 1,0 text/plain "b"
//	    └── 1,1 text/html "c"
func testTree() *message.Message {
	leaf := func(ctype, body string) *message.Message {
		return &message.Message{
			Header:      map[string]string{"Content-Type": ctype},
			ContentType: ctype,
			Parts:       []*message.Message{},
			Body:        []byte(body),
		}
	}
	return &message.Message{
		Header:      map[string]string{"Subject": "tree", "Content-Type": "multipart/mixed"},
		ContentType: "multipart/mixed",
		Parts: []*message.Message{
			leaf("text/plain", "a"),
			{
				Header:      map[string]string{"Content-Type": "multipart/alternative"},
				ContentType: "multipart/alternative",
				Parts: []*message.Message{
					leaf("text/plain", "b"),
					leaf("text/html", "c"),
				},
			},
		},
	}
}

func TestResolve(t *testing.T) {
	root := testTree()
	testCases := []struct {
		path []int
		want *message.Message
	}{
		{[]int{0}, root.Parts[0]},
		{[]int{1}, root.Parts[1]},
		{[]int{1, 0}, root.Parts[1].Parts[0]},
		{[]int{1, 1}, root.Parts[1].Parts[1]},
	}
	for _, tc := range testCases {
		t.Run(message.FormatPath(tc.path), func(t *testing.T) {
			got, err := message.Resolve(root, tc.path)
			require.NoError(t, err)
			assert.Same(t, tc.want, got)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	root := testTree()
	testCases := []struct {
		path  []int
		depth int
	}{
		{[]int{2}, 0},
		{[]int{-1}, 0},
		{[]int{0, 0}, 1},
		{[]int{1, 2}, 1},
		{[]int{1, 0, 0}, 2},
	}
	for _, tc := range testCases {
		t.Run(message.FormatPath(tc.path), func(t *testing.T) {
			got, err := message.Resolve(root, tc.path)
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, errors.Is(err, message.ErrNotFound))

			var aerr *message.AddressError
			require.True(t, errors.As(err, &aerr))
			assert.Equal(t, tc.depth, aerr.Depth)
		})
	}
}

func TestResolveEmptyPath(t *testing.T) {
	_, err := message.Resolve(testTree(), nil)
	assert.Equal(t, message.ErrEmptyPath, err)
}

func TestSkeleton(t *testing.T) {
	root := testTree()
	skel := root.Skeleton()

	var check func(t *testing.T, src, got *message.Message)
	check = func(t *testing.T, src, got *message.Message) {
		assert.NotSame(t, src, got)
		assert.Empty(t, got.Body)
		assert.NotNil(t, got.Parts)
		assert.Equal(t, src.Header, got.Header)
		assert.Equal(t, src.ContentType, got.ContentType)
		require.Len(t, got.Parts, len(src.Parts))
		for i := range src.Parts {
			check(t, src.Parts[i], got.Parts[i])
		}
	}
	check(t, root, skel)

	// The source tree is untouched and shares no header maps.
	assert.Equal(t, "b", string(root.Parts[1].Parts[0].Body))
	skel.Header["Subject"] = "changed"
	assert.Equal(t, "tree", root.Header["Subject"])
}

func TestErrorMessages(t *testing.T) {
	perr := &message.ParseError{Path: "INBOX/cur/1", Err: errors.New("boom")}
	assert.Equal(t, `parse message "INBOX/cur/1": boom`, perr.Error())
	assert.Equal(t, "parse message: boom", (&message.ParseError{Err: errors.New("boom")}).Error())

	aerr := &message.AddressError{Path: []int{1, 7}, Depth: 1}
	assert.Equal(t, "part 1,7: index 7 at depth 1 out of range", aerr.Error())
}
