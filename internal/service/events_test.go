package service

import (
	"context"
	"errors"
	"testing"

	"handsaround/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEventDirectory_FetchEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("Full replace", func(t *testing.T) {
		client := new(MockBackend)
		dir := NewEventDirectory(client)
		client.On("ListEvents", ctx).Return([]domain.Event{{ID: "a"}, {ID: "b"}}, nil).Once()
		client.On("ListEvents", ctx).Return([]domain.Event{{ID: "c"}}, nil).Once()

		_, err := dir.FetchEvents(ctx)
		require.NoError(t, err)
		got, err := dir.FetchEvents(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Event{{ID: "c"}}, got)
		assert.Equal(t, got, dir.Events())
	})

	t.Run("Failure keeps previous snapshot", func(t *testing.T) {
		client := new(MockBackend)
		dir := NewEventDirectory(client)
		client.On("ListEvents", ctx).Return([]domain.Event{{ID: "a"}}, nil).Once()
		client.On("ListEvents", ctx).Return(nil, domain.BackendError("fetch events", errors.New("refused"))).Once()

		_, err := dir.FetchEvents(ctx)
		require.NoError(t, err)
		_, err = dir.FetchEvents(ctx)
		assert.True(t, errors.Is(err, domain.ErrBackend))
		assert.Len(t, dir.Events(), 1)
	})
}

func TestEventDirectory_AddEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := new(MockBackend)
		dir := NewEventDirectory(client)
		fields := validFields()
		created := &domain.Event{ID: "ev-1", OwnerOrgID: "ngo-1", Title: fields.Title, VolunteerSlots: 2}
		client.On("CreateEvent", ctx, "tok-ngo", ngoUser, fields).Return(created, nil)

		ev, err := dir.AddEvent(ctx, &ngoUser, fields)
		require.NoError(t, err)
		assert.Equal(t, "ev-1", ev.ID)
		got, ok := dir.Get("ev-1")
		assert.True(t, ok)
		assert.Equal(t, "Food drive", got.Title)
	})

	t.Run("Signed out", func(t *testing.T) {
		client := new(MockBackend)
		_, err := NewEventDirectory(client).AddEvent(ctx, nil, validFields())
		assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))
		client.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Volunteer cannot post", func(t *testing.T) {
		client := new(MockBackend)
		_, err := NewEventDirectory(client).AddEvent(ctx, &volV, validFields())
		assert.True(t, errors.Is(err, domain.ErrForbidden))
	})

	t.Run("Missing fields", func(t *testing.T) {
		client := new(MockBackend)
		fields := validFields()
		fields.Location = ""
		_, err := NewEventDirectory(client).AddEvent(ctx, &ngoUser, fields)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		client.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Backend failure is returned, not swallowed", func(t *testing.T) {
		client := new(MockBackend)
		dir := NewEventDirectory(client)
		client.On("CreateEvent", ctx, "tok-ngo", ngoUser, mock.Anything).Return(nil, domain.BackendError("add event", errors.New("502")))

		ev, err := dir.AddEvent(ctx, &ngoUser, validFields())
		assert.Nil(t, ev)
		assert.True(t, errors.Is(err, domain.ErrBackend))
		assert.Empty(t, dir.Events())
	})
}

func TestEventDirectory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := new(MockBackend)
	dir := NewEventDirectory(client)
	fields := validFields()
	echo := domain.Event{
		ID: "ev-7", OwnerOrgID: "ngo-1", OwnerOrgName: "Helping Hands Trust",
		Title: fields.Title, Category: fields.Category, Date: fields.Date, Time: fields.Time,
		Location: fields.Location, Description: fields.Description, VolunteerSlots: fields.VolunteerSlots,
	}
	client.On("CreateEvent", ctx, "tok-ngo", ngoUser, fields).Return(&echo, nil)
	client.On("ListEvents", ctx).Return([]domain.Event{echo}, nil)

	added, err := dir.AddEvent(ctx, &ngoUser, fields)
	require.NoError(t, err)
	fetched, err := dir.FetchEvents(ctx)
	require.NoError(t, err)

	require.Len(t, fetched, 1)
	assert.Equal(t, *added, fetched[0])
}

func TestEventDirectory_DeleteEvent(t *testing.T) {
	ctx := context.Background()

	seeded := func(client *MockBackend) EventDirectory {
		dir := NewEventDirectory(client)
		client.On("ListEvents", ctx).Return([]domain.Event{{ID: "a"}, {ID: "b"}}, nil)
		_, _ = dir.FetchEvents(ctx)
		return dir
	}

	t.Run("Success", func(t *testing.T) {
		client := new(MockBackend)
		dir := seeded(client)
		client.On("DeleteEvent", ctx, "tok-ngo", "a").Return(nil)

		assert.NoError(t, dir.DeleteEvent(ctx, &ngoUser, "a"))
		_, ok := dir.Get("a")
		assert.False(t, ok)
		assert.Len(t, dir.Events(), 1)
	})

	t.Run("Backend failure keeps event", func(t *testing.T) {
		client := new(MockBackend)
		dir := seeded(client)
		client.On("DeleteEvent", ctx, "tok-ngo", "a").Return(domain.NewError(domain.KindForbidden, "not owner", nil))

		err := dir.DeleteEvent(ctx, &ngoUser, "a")
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		assert.Len(t, dir.Events(), 2)
	})

	t.Run("Already gone on backend drops local copy", func(t *testing.T) {
		client := new(MockBackend)
		dir := seeded(client)
		client.On("DeleteEvent", ctx, "tok-ngo", "b").Return(domain.ErrEventNotFound)

		err := dir.DeleteEvent(ctx, &ngoUser, "b")
		assert.True(t, errors.Is(err, domain.ErrEventNotFound))
		assert.Len(t, dir.Events(), 1)
	})

	t.Run("Volunteer cannot delete", func(t *testing.T) {
		client := new(MockBackend)
		dir := seeded(client)
		assert.True(t, errors.Is(dir.DeleteEvent(ctx, &volV, "a"), domain.ErrForbidden))
	})
}

func TestEventDirectory_EditEvent(t *testing.T) {
	_, err := NewEventDirectory(new(MockBackend)).EditEvent(context.Background(), &ngoUser, "a", validFields())
	assert.True(t, errors.Is(err, domain.ErrNotImplemented))
}
