package services

import (
	"context"
	"testing"

	"projector-crm-sync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSiteMatchesFuzzyName(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	r := NewEntityResolver(store, nil)

	first, err := r.ResolveSite(ctx, "PVR Cinemaas")
	require.NoError(t, err)
	assert.Equal(t, "PVR Cinemas", first.Name)

	again, err := r.ResolveSite(ctx, "  pvr   cinemas ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, store.sites, 1)

	_, err = r.ResolveSite(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptySiteName)
}

func TestResolveProjectorModel(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	r := NewEntityResolver(store, nil)

	model, err := r.ResolveProjectorModel(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, model)

	model, err = r.ResolveProjectorModel(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, model, "the placeholder literal never creates a model on its own")

	model, err = r.ResolveProjectorModel(ctx, " M1 ")
	require.NoError(t, err)
	require.NotNil(t, model)
	assert.Equal(t, "M1", model.ModelNo)
	assert.Equal(t, placeholderManufacturer, model.Manufacturer)
	assert.Equal(t, placeholderSpecifications, model.Specifications)

	same, err := r.ResolveProjectorModel(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, model.ID, same.ID)
	assert.Len(t, store.pmodels, 1)
}

func TestResolveProjectorUpgradesPlaceholderModel(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	r := NewEntityResolver(store, nil)

	p, err := r.ResolveProjector(ctx, " sn-1 ", "")
	require.NoError(t, err)
	assert.Equal(t, "SN-1", p.SerialNumber)
	assert.Equal(t, models.ProjectorStatusActive, p.Status)
	unknown, _ := store.FindProjectorModel(ctx, models.UnknownModelNo)
	require.NotNil(t, unknown)
	assert.Equal(t, unknown.ID, p.ProjectorModelID)

	p, err = r.ResolveProjector(ctx, "SN-1", "M1")
	require.NoError(t, err)
	m1, _ := store.FindProjectorModel(ctx, "M1")
	require.NotNil(t, m1)
	assert.Equal(t, m1.ID, p.ProjectorModelID)

	// A real model is never replaced by another one.
	p, err = r.ResolveProjector(ctx, "SN-1", "M2")
	require.NoError(t, err)
	assert.Equal(t, m1.ID, p.ProjectorModelID)
	assert.Len(t, store.projectors, 1)

	_, err = r.ResolveProjector(ctx, "  ", "M1")
	assert.ErrorIs(t, err, ErrEmptySerial)
}

func TestLinkAudiMergesPlaceholderHolder(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	r := NewEntityResolver(store, nil)

	site, err := r.ResolveSite(ctx, "Demo Cinema")
	require.NoError(t, err)
	projector, err := r.ResolveProjector(ctx, "SN-1", "M1")
	require.NoError(t, err)

	placeholder, err := r.PlaceholderAudi(ctx, site, projector)
	require.NoError(t, err)
	assert.Equal(t, "AUTO-1", placeholder.AudiNo)
	assert.True(t, placeholder.IsPlaceholder())

	require.NoError(t, store.CreateDTRCase(ctx, &models.DTRCase{
		CaseNumber: "C1", SiteID: site.ID, AudiID: placeholder.ID, SerialNumber: "SN-1",
	}))

	audi, err := r.LinkAudi(ctx, site, "A1", projector)
	require.NoError(t, err)
	assert.Equal(t, "A1", audi.AudiNo)
	require.NotNil(t, audi.ProjectorID)
	assert.Equal(t, projector.ID, *audi.ProjectorID)

	require.Len(t, store.audis, 1, "placeholder is removed after its cases move")
	assert.Equal(t, audi.ID, store.dtrs[0].AudiID)
}

func TestLinkAudiDetachesRealHolder(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	r := NewEntityResolver(store, nil)

	site, _ := r.ResolveSite(ctx, "Demo Cinema")
	projector, _ := r.ResolveProjector(ctx, "SN-1", "M1")

	old, err := r.LinkAudi(ctx, site, "A1", projector)
	require.NoError(t, err)

	moved, err := r.LinkAudi(ctx, site, "A2", projector)
	require.NoError(t, err)

	previous, _ := store.FindAudiByID(ctx, old.ID)
	require.NotNil(t, previous, "a real audi is kept")
	assert.Nil(t, previous.ProjectorID)

	holder, _ := store.FindAudiByProjector(ctx, projector.ID)
	require.NotNil(t, holder)
	assert.Equal(t, moved.ID, holder.ID)

	// Relinking to the current holder is a no-op.
	same, err := r.LinkAudi(ctx, site, "A2", projector)
	require.NoError(t, err)
	assert.Equal(t, moved.ID, same.ID)
	assert.Len(t, store.audis, 2)
}

func TestPlaceholderAudiSkipsTakenNumbers(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	r := NewEntityResolver(store, nil)

	site, _ := r.ResolveSite(ctx, "Demo Cinema")
	require.NoError(t, store.CreateAudi(ctx, &models.Audi{SiteID: site.ID, AudiNo: "AUTO-2"}))

	audi, err := r.PlaceholderAudi(ctx, site, nil)
	require.NoError(t, err)
	assert.Equal(t, "AUTO-3", audi.AudiNo)
	assert.Nil(t, audi.ProjectorID)
}
