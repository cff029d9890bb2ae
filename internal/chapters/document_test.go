package chapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoChapterXML = `<EditionEntry>
  <ChapterAtom>
    <ChapterTimeStart>00:00:00.000000000</ChapterTimeStart>
    <ChapterTimeEnd>00:01:00.000000000</ChapterTimeEnd>
    <ChapterDisplay><ChapterString>A</ChapterString></ChapterDisplay>
  </ChapterAtom>
  <ChapterAtom>
    <ChapterTimeStart>00:01:00.000000000</ChapterTimeStart>
    <ChapterDisplay><ChapterString>B</ChapterString></ChapterDisplay>
  </ChapterAtom>
</EditionEntry>`

func titles(doc *Document) []string {
	var out []string
	for _, ch := range doc.All() {
		out = append(out, ch.Title)
	}
	return out
}

func TestDocument_AppendChapterIsTailInsertion(t *testing.T) {
	doc, err := Parse([]byte(twoChapterXML))
	require.NoError(t, err)

	// Earlier timestamp than existing chapters: still goes to the tail.
	doc.AppendChapter("C", "00:00:30.000000000")

	assert.Equal(t, []string{"A", "B", "C"}, titles(doc))
	c := doc.At(2)
	assert.Equal(t, "00:00:30.000000000", c.StartTime)
	assert.Nil(t, c.EndTime)
}

func TestDocument_AppendSurvivesRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(twoChapterXML))
	require.NoError(t, err)
	doc.AppendChapter("C", "00:02:00.000000000")

	out, err := doc.Marshal()
	require.NoError(t, err)
	again, err := Parse(out)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, titles(again))
	_, hasEnd := again.At(2).End()
	assert.False(t, hasEnd)
}

func TestDocument_AllIsRestartable(t *testing.T) {
	doc, err := Parse([]byte(twoChapterXML))
	require.NoError(t, err)

	seq := doc.All()
	var first, second []string
	for _, ch := range seq {
		first = append(first, ch.Title)
		for _, inner := range seq {
			second = append(second, inner.Title)
		}
	}

	assert.Equal(t, []string{"A", "B"}, first)
	assert.Equal(t, []string{"A", "B", "A", "B"}, second)
}

func TestDocument_AllStopsEarly(t *testing.T) {
	doc, err := Parse([]byte(twoChapterXML))
	require.NoError(t, err)

	count := 0
	for range doc.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestDocument_AllYieldsCopies(t *testing.T) {
	doc, err := Parse([]byte(twoChapterXML))
	require.NoError(t, err)

	for _, ch := range doc.All() {
		ch.Title = "changed"
	}
	assert.Equal(t, []string{"A", "B"}, titles(doc))
}

func TestDocument_EditableMutatesInPlace(t *testing.T) {
	doc, err := Parse([]byte(twoChapterXML))
	require.NoError(t, err)

	for i, ch := range doc.Editable() {
		ch.Title = ch.Title + "!"
		if i == 1 {
			end := "00:02:00.000000000"
			ch.EndTime = &end
		}
	}

	assert.Equal(t, []string{"A!", "B!"}, titles(doc))
	end, ok := doc.At(1).End()
	assert.True(t, ok)
	assert.Equal(t, "00:02:00.000000000", end)
}

func TestDocument_Display(t *testing.T) {
	doc, err := Parse([]byte(twoChapterXML))
	require.NoError(t, err)

	want := "Start: 00:00:00.000000000 End: 00:01:00.000000000 Title: A\n" +
		"Start: 00:01:00.000000000 End: ???          Title: B\n"
	assert.Equal(t, want, doc.Display())
	assert.Equal(t, want, doc.String())
}

func TestDocument_DisplayPadsShortTimestamps(t *testing.T) {
	doc, err := Parse([]byte(`<EditionEntry><ChapterAtom><ChapterTimeStart>0:01</ChapterTimeStart><ChapterDisplay><ChapterString>x</ChapterString></ChapterDisplay></ChapterAtom></EditionEntry>`))
	require.NoError(t, err)

	assert.Equal(t, "Start: 0:01         End: ???          Title: x\n", doc.Display())
}
