package service

import (
	"errors"
	"testing"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPreferenceStore(t *testing.T) {
	t.Run("DefaultOnFirstLoad", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewPreferenceStore(t.Context(), p)

		assert.True(t, s.Ready())
		assert.Equal(t, domain.DefaultPreferences(), s.Preferences())
	})

	t.Run("UpdateRoundTrip", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewPreferenceStore(t.Context(), p)

		v := 2
		got := s.UpdatePreferences(t.Context(), domain.PreferencesPatch{ThemeVariant: &v})
		assert.Equal(t, 2, got.ThemeVariant)

		reloaded := NewPreferenceStore(t.Context(), p)
		assert.Equal(t, 2, reloaded.Preferences().ThemeVariant)
	})

	t.Run("EmptyPatchKeepsValue", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewPreferenceStore(t.Context(), p)
		v := 1
		s.UpdatePreferences(t.Context(), domain.PreferencesPatch{ThemeVariant: &v})

		got := s.UpdatePreferences(t.Context(), domain.PreferencesPatch{})
		assert.Equal(t, 1, got.ThemeVariant)
	})

	t.Run("OutOfRangeIsStoredAsIs", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewPreferenceStore(t.Context(), p)

		v := 7
		got := s.UpdatePreferences(t.Context(), domain.PreferencesPatch{ThemeVariant: &v})
		assert.Equal(t, 7, got.ThemeVariant)
	})

	t.Run("CycleThemeWraps", func(t *testing.T) {
		p, _ := newPersister(t)
		s := NewPreferenceStore(t.Context(), p)

		var got []int
		for range 4 {
			got = append(got, s.CycleTheme(t.Context()).ThemeVariant)
		}
		assert.Equal(t, []int{1, 2, 0, 1}, got)
	})

	t.Run("MalformedRecordFallsBackToDefault", func(t *testing.T) {
		p, kv := newPersister(t)
		err := kv.Put(t.Context(), p.Key(port.PreferencesRecord), []byte(`[1,2]`))
		require.NoError(t, err)

		s := NewPreferenceStore(t.Context(), p)
		assert.Equal(t, domain.DefaultPreferences(), s.Preferences())
	})

	t.Run("SaveFailureIsReported", func(t *testing.T) {
		p := &MockPersister{}
		p.On("LoadInto", mock.Anything, port.PreferencesRecord, mock.Anything).
			Return(false)
		p.On("Save", mock.Anything, port.PreferencesRecord, mock.Anything).
			Return(errors.New("quota exceeded"))

		s := NewPreferenceStore(t.Context(), p)
		got := s.CycleTheme(t.Context())

		assert.Equal(t, 1, got.ThemeVariant)
		assert.True(t, s.Unsaved())
	})
}

func TestRecentlyViewed(t *testing.T) {
	t.Run("MostRecentFirstWithoutDuplicates", func(t *testing.T) {
		p, _ := newPersister(t)
		r := NewRecentlyViewed(t.Context(), p)

		for _, id := range []int{1, 2, 3, 2} {
			r.Track(t.Context(), id)
		}
		assert.Equal(t, []int{2, 3, 1}, r.IDs())
	})

	t.Run("Capped", func(t *testing.T) {
		p, _ := newPersister(t)
		r := NewRecentlyViewed(t.Context(), p)

		for id := range 8 {
			r.Track(t.Context(), id)
		}
		assert.Equal(t, []int{7, 6, 5, 4, 3}, r.IDs())
	})

	t.Run("Persisted", func(t *testing.T) {
		p, _ := newPersister(t)
		r := NewRecentlyViewed(t.Context(), p)
		r.Track(t.Context(), 4)
		r.Track(t.Context(), 5)

		assert.Equal(t, []int{5, 4}, NewRecentlyViewed(t.Context(), p).IDs())
	})

	t.Run("StoredAsStringIDs", func(t *testing.T) {
		p, kv := newPersister(t)
		r := NewRecentlyViewed(t.Context(), p)
		r.Track(t.Context(), 4)
		r.Track(t.Context(), 12)

		data, err := kv.Get(t.Context(), p.Key(port.RecentlyViewedRecord))
		require.NoError(t, err)
		assert.JSONEq(t, `["12","4"]`, string(data))
	})

	t.Run("LoadsStringAndNumberIDs", func(t *testing.T) {
		p, kv := newPersister(t)
		err := kv.Put(t.Context(), p.Key(port.RecentlyViewedRecord),
			[]byte(`["2","5",7,"1","3","6"]`))
		require.NoError(t, err)

		assert.Equal(t, []int{2, 5, 7, 1, 3}, NewRecentlyViewed(t.Context(), p).IDs())
	})

	t.Run("NonNumericIDResets", func(t *testing.T) {
		p, kv := newPersister(t)
		err := kv.Put(t.Context(), p.Key(port.RecentlyViewedRecord),
			[]byte(`["2","tee"]`))
		require.NoError(t, err)

		assert.Empty(t, NewRecentlyViewed(t.Context(), p).IDs())
	})
}

func TestLog(t *testing.T) {
	t.Run("EvictsOldest", func(t *testing.T) {
		p, _ := newPersister(t)
		l := NewLog[int](t.Context(), p, "Numbers", 3)

		for i := range 5 {
			l.Append(t.Context(), i)
		}
		assert.Equal(t, []int{2, 3, 4}, l.Entries())
		assert.Equal(t, 3, l.Len())
	})

	t.Run("Unbounded", func(t *testing.T) {
		p, _ := newPersister(t)
		l := NewLog[string](t.Context(), p, "Words", 0)

		for range 10 {
			l.Append(t.Context(), "w")
		}
		assert.Equal(t, 10, l.Len())
	})

	t.Run("Persisted", func(t *testing.T) {
		p, _ := newPersister(t)
		l := NewLog[domain.Subscriber](t.Context(), p, port.SubscribersRecord, 10)
		l.Append(t.Context(), domain.Subscriber{Email: "a@b.c"})

		reloaded := NewLog[domain.Subscriber](
			t.Context(), p, port.SubscribersRecord, 10,
		)
		require.Equal(t, 1, reloaded.Len())
		assert.Equal(t, "a@b.c", reloaded.Entries()[0].Email)
	})

	t.Run("CapAppliedOnLoad", func(t *testing.T) {
		p, _ := newPersister(t)
		l := NewLog[int](t.Context(), p, "Numbers", 0)
		for i := range 6 {
			l.Append(t.Context(), i)
		}

		reloaded := NewLog[int](t.Context(), p, "Numbers", 2)
		assert.Equal(t, []int{4, 5}, reloaded.Entries())
	})
}
