package aggregates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type ticket struct {
	Title     string
	Tags      []string
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
	Version   int
}

func (t *ticket) SetCreatedAt(at time.Time) { t.CreatedAt = at }
func (t *ticket) SetCreatedBy(by string)    { t.CreatedBy = by }
func (t *ticket) SetUpdatedAt(at time.Time) { t.UpdatedAt = at }
func (t *ticket) SetUpdatedBy(by string)    { t.UpdatedBy = by }
func (t *ticket) GetVersion() int           { return t.Version }
func (t *ticket) SetVersion(v int)          { t.Version = v }

var submitAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func setTitle(title string) Change[*ticket] {
	return Change[*ticket]{Field: "title", Apply: func(t *ticket) { t.Title = title }}
}

func loadedTicket(t *testing.T, version int) *Root[*ticket] {
	t.Helper()
	root, err := Load(&ticket{
		Title:     "loaded",
		CreatedAt: submitAt.Add(-48 * time.Hour),
		CreatedBy: "creator",
		UpdatedAt: submitAt.Add(-24 * time.Hour),
		UpdatedBy: "editor",
		Version:   version,
	})
	require.NoError(t, err)
	return root
}

func TestSubmitUnchangedIsNoop(t *testing.T) {
	root := loadedTicket(t, 3)

	changed, err := root.SubmitChange(submitAt, "admin")
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, 3, root.Version())
	require.Equal(t, StateUnchanged, root.State())
	require.Empty(t, root.Changes())
}

func TestSubmitTwiceIsStateConflict(t *testing.T) {
	root, err := Create(&ticket{}, setTitle("new"))
	require.NoError(t, err)

	_, err = root.SubmitChange(submitAt, "admin")
	require.NoError(t, err)

	_, err = root.SubmitChange(submitAt, "admin")
	require.Error(t, err)
	require.True(t, IsCode(err, CodeStateConflict), "got %v", err)
}

func TestTrackAfterSubmitLeavesLogUntouched(t *testing.T) {
	root := loadedTicket(t, 1)
	require.NoError(t, root.Track("title", func(t *ticket) { t.Title = "edited" }))
	_, err := root.SubmitChange(submitAt, "admin")
	require.NoError(t, err)

	before := len(root.Changes())
	err = root.Track("title", func(t *ticket) { t.Title = "too late" })
	require.True(t, IsCode(err, CodeStateConflict), "got %v", err)
	require.Len(t, root.Changes(), before)
	require.Equal(t, "edited", root.Instance().Title)
}

func TestVersionBumpsOncePerSubmission(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		root := loadedTicket(t, 5)
		for i := 0; i < n; i++ {
			tag := string(rune('a' + i))
			require.NoError(t, root.Track("tags", func(t *ticket) { t.Tags = append(t.Tags, tag) }))
		}
		changed, err := root.SubmitChange(submitAt, "admin")
		require.NoError(t, err)
		require.True(t, changed)
		require.Equal(t, 6, root.Version(), "n=%d", n)
		require.Equal(t, 5, root.LoadedVersion())
	}
}

func TestReplayOfAddedMatchesInstance(t *testing.T) {
	root, err := Create(&ticket{}, setTitle("draft"))
	require.NoError(t, err)
	require.NoError(t, root.Track("tags", func(t *ticket) { t.Tags = append(t.Tags, "x") }))
	require.NoError(t, root.Track("tags", func(t *ticket) { t.Tags = append(t.Tags, "y") }))
	require.NoError(t, root.Track("title", func(t *ticket) { t.Title = "final" }))
	_, err = root.SubmitChange(submitAt, "admin")
	require.NoError(t, err)

	fresh := &ticket{}
	root.Replay(fresh)
	require.Equal(t, *root.Instance(), *fresh)
	require.Equal(t, []string{"x", "y"}, fresh.Tags)
	require.Equal(t, 1, fresh.Version)
}

func TestAuditStampingOnAdded(t *testing.T) {
	root, err := Create(&ticket{}, setTitle("new"))
	require.NoError(t, err)
	_, err = root.SubmitChange(submitAt, "admin")
	require.NoError(t, err)

	got := root.Instance()
	require.Equal(t, submitAt, got.CreatedAt)
	require.Equal(t, "admin", got.CreatedBy)
	require.Equal(t, submitAt, got.UpdatedAt)
	require.Equal(t, "admin", got.UpdatedBy)
	require.Equal(t, StateAdded, root.Intent())

	fields := root.Fields()
	require.Equal(t, []string{"title", FieldUpdatedAt, FieldUpdatedBy, FieldCreatedAt, FieldCreatedBy, FieldVersion}, fields)
}

func TestAuditStampingOnModifiedKeepsCreated(t *testing.T) {
	root := loadedTicket(t, 2)
	createdAt, createdBy := root.Instance().CreatedAt, root.Instance().CreatedBy
	require.NoError(t, root.Track("title", func(t *ticket) { t.Title = "edited" }))
	_, err := root.SubmitChange(submitAt, "admin")
	require.NoError(t, err)

	got := root.Instance()
	require.Equal(t, createdAt, got.CreatedAt)
	require.Equal(t, createdBy, got.CreatedBy)
	require.Equal(t, submitAt, got.UpdatedAt)
	require.Equal(t, "admin", got.UpdatedBy)
	require.Equal(t, StateModified, root.Intent())
	require.NotContains(t, root.Fields(), FieldCreatedAt)
}

func TestAuditEntriesAreLast(t *testing.T) {
	root := loadedTicket(t, 0)
	require.NoError(t, root.Track("title", func(t *ticket) { t.Title = "a" }))
	require.NoError(t, root.Track("tags", func(t *ticket) { t.Tags = []string{"b"} }))
	_, err := root.SubmitChange(submitAt, "admin")
	require.NoError(t, err)

	changes := root.Changes()
	require.Len(t, changes, 5)
	require.Equal(t, "title", changes[0].Field)
	require.Equal(t, "tags", changes[1].Field)
	require.Equal(t, FieldVersion, changes[len(changes)-1].Field)
}

func TestStateTransitions(t *testing.T) {
	root := loadedTicket(t, 0)
	require.Equal(t, StateUnchanged, root.State())
	require.NoError(t, root.Track("title", func(t *ticket) { t.Title = "a" }))
	require.Equal(t, StateModified, root.State())

	added, err := Create(&ticket{}, setTitle("b"))
	require.NoError(t, err)
	require.NoError(t, added.Track("title", func(t *ticket) { t.Title = "c" }))
	require.Equal(t, StateAdded, added.State())
	require.Equal(t, "c", added.Instance().Title)
}

func TestCreateRequiresInitialChange(t *testing.T) {
	_, err := Create[*ticket](&ticket{})
	require.True(t, IsCode(err, CodeValidation), "got %v", err)
}

func TestTrackRejectsNilMutation(t *testing.T) {
	root := loadedTicket(t, 0)
	err := root.Track("title", nil)
	require.True(t, IsCode(err, CodeValidation), "got %v", err)
	require.Equal(t, StateUnchanged, root.State())
}

func TestErrorHelpers(t *testing.T) {
	err := StateConflict("op", "nope")
	require.Equal(t, CodeStateConflict, CodeOf(err))
	require.Equal(t, "op: nope (state_conflict)", err.Error())
	require.False(t, Retryable(err))
	require.True(t, Retryable(NewError(CodeConflict, "op", "stale", nil)))
	require.Nil(t, Wrap(CodeInternal, "op", nil))
}

func TestTrackRejectsBlankFieldLabel(t *testing.T) {
	root := loadedTicket(t, 1)
	applied := false
	err := root.Track("  ", func(t *ticket) { applied = true; t.Title = "unlabelled" })
	require.True(t, IsCode(err, CodeValidation), "got %v", err)
	require.False(t, applied)
	require.Empty(t, root.Changes())
	require.Equal(t, "loaded", root.Instance().Title)
	require.Equal(t, StateUnchanged, root.State())

	_, err = Create(&ticket{}, Change[*ticket]{Apply: func(t *ticket) { t.Title = "x" }})
	require.True(t, IsCode(err, CodeValidation), "got %v", err)
}

func TestFieldsCoverEveryLoggedChange(t *testing.T) {
	root := loadedTicket(t, 1)
	require.NoError(t, root.Track(" title ", func(t *ticket) { t.Title = "a" }))
	_, err := root.SubmitChange(submitAt, "admin")
	require.NoError(t, err)

	fields := root.Fields()
	for _, c := range root.Changes() {
		require.Contains(t, fields, c.Field)
	}
	require.Equal(t, []string{"title", FieldUpdatedAt, FieldUpdatedBy, FieldVersion}, fields)
}

func TestMarkSavedIsTerminal(t *testing.T) {
	root := loadedTicket(t, 2)
	err := root.MarkSaved()
	require.True(t, IsCode(err, CodeStateConflict), "got %v", err)

	require.NoError(t, root.Track("title", func(t *ticket) { t.Title = "edited" }))
	_, err = root.SubmitChange(submitAt, "admin")
	require.NoError(t, err)
	require.NoError(t, root.MarkSaved())
	require.Equal(t, StateSaved, root.State())
	require.Equal(t, StateModified, root.Intent())
	require.Equal(t, 3, root.Version())

	err = root.MarkSaved()
	require.True(t, IsCode(err, CodeStateConflict), "got %v", err)
	require.Contains(t, err.Error(), "already saved")
	_, err = root.SubmitChange(submitAt, "admin")
	require.True(t, IsCode(err, CodeStateConflict), "got %v", err)
	before := len(root.Changes())
	err = root.Track("title", func(t *ticket) { t.Title = "again" })
	require.True(t, IsCode(err, CodeStateConflict), "got %v", err)
	require.Len(t, root.Changes(), before)
}

func TestLoadAndCreateRejectNilInstance(t *testing.T) {
	_, err := Load[*ticket](nil)
	require.True(t, IsCode(err, CodeValidation), "got %v", err)

	_, err = Create[*ticket](nil, setTitle("x"))
	require.True(t, IsCode(err, CodeValidation), "got %v", err)
}
