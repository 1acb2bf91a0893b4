package lsp

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/core/util/ntp"
	"github.com/kochabx/clea/errors"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef0123456789abcdef012")

func testVenue() Venue {
	return Venue{CountryCode: 250, RenewalExponent: 10, VenueType: 3, VenueCategory1: 1, PeriodDuration: 1}
}

func TestLocationPeriod(t *testing.T) {
	c := newCodec(t)
	now := ntp.ToTime(testPeriodStart).Add(20 * time.Minute)
	loc, err := NewLocation(testSecret, testVenue(), c.enc, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	p, err := loc.StartNewPeriod()
	require.NoError(t, err)
	assert.Equal(t, uint32(testPeriodStart), p.PeriodStartTime)
	assert.Equal(t, p.PeriodStartTime, p.QRCodeValidityStartTime)
	assert.Equal(t, testVenue(), p.Venue)

	key, id, err := Derive(testSecret, testPeriodStart)
	require.NoError(t, err)
	assert.Equal(t, key, p.LTKey)
	assert.Equal(t, id, p.LTId)

	again, err := loc.StartPeriod(testPeriodStart)
	require.NoError(t, err)
	assert.Equal(t, p, again)

	_, err = loc.StartPeriod(testPeriodStart + 1)
	assert.True(t, errors.IsInvalidInput(err))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.PeriodsStarted))
}

func TestLocationRenewNow(t *testing.T) {
	c := newCodec(t)
	now := ntp.ToTime(testPeriodStart).Add(20 * time.Minute)
	loc, err := NewLocation(testSecret, testVenue(), c.enc, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	p, err := loc.StartPeriod(testPeriodStart)
	require.NoError(t, err)

	next, err := loc.RenewNow(p)
	require.NoError(t, err)
	assert.Equal(t, uint32(testPeriodStart+1024), next.QRCodeValidityStartTime)
	assert.Equal(t, p.LTKey, next.LTKey)
	assert.False(t, loc.Expired(next))

	now = now.Add(41 * time.Minute)
	assert.True(t, loc.Expired(next))

	_, err = loc.Renew(p, testPeriodStart+100)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.QRCodesRenewed))

	static := testVenue()
	static.RenewalExponent = NoRenewal
	static.PeriodDuration = UnlimitedDuration
	staticLoc, err := NewLocation(testSecret, static, c.enc, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	sp, err := staticLoc.StartPeriod(testPeriodStart)
	require.NoError(t, err)
	_, err = staticLoc.RenewNow(sp)
	assert.True(t, errors.IsInvalidInput(err))
	assert.False(t, staticLoc.Expired(sp))
}

func TestLocationDeepLink(t *testing.T) {
	c := newCodec(t)
	contact := ContactMessage{Phone: "0612345678", Region: 3, PIN: "654321"}
	loc, err := NewLocation(testSecret, testVenue(), c.enc, WithContact(contact))
	require.NoError(t, err)

	p, err := loc.StartPeriod(testPeriodStart)
	require.NoError(t, err)
	link, err := loc.DeepLink(p)
	require.NoError(t, err)

	got, err := c.dec.Decode(link)
	require.NoError(t, err)
	assert.Equal(t, p, got.LSP)
	require.NotNil(t, got.Contact)
	assert.Equal(t, contact.Phone, got.Contact.Phone)
	assert.Equal(t, p.PeriodStartTime, got.Contact.PeriodStartTime)
	assert.Zero(t, loc.Contact().PeriodStartTime)
}

func TestNewLocationErrors(t *testing.T) {
	c := newCodec(t)

	_, err := NewLocation(nil, testVenue(), c.enc)
	assert.True(t, errors.IsInvalidInput(err))
	_, err = NewLocation(make([]byte, MaxPermanentKeySize+1), testVenue(), c.enc)
	assert.True(t, errors.IsInvalidInput(err))
	_, err = NewLocation(testSecret, testVenue(), nil)
	assert.True(t, errors.IsInvalidInput(err))

	bad := testVenue()
	bad.VenueCategory1 = 16
	_, err = NewLocation(testSecret, bad, c.enc)
	assert.True(t, errors.IsInvalidInput(err))

	noContactKey, err := NewEncoder(c.sa.Public(), nil)
	require.NoError(t, err)
	_, err = NewLocation(testSecret, testVenue(), noContactKey, WithContact(*testContact()))
	assert.True(t, errors.IsInvalidInput(err))
}

func TestDecodeAll(t *testing.T) {
	c := newCodec(t, WithConcurrency(3))
	loc, err := NewLocation(testSecret, testVenue(), c.enc)
	require.NoError(t, err)

	var tokens []string
	var parts []LocationSpecificPart
	for i := 0; i < 8; i++ {
		p, err := loc.StartPeriod(testPeriodStart + uint32(i)*3600)
		require.NoError(t, err)
		link, err := loc.DeepLink(p)
		require.NoError(t, err)
		tokens = append(tokens, link)
		parts = append(parts, p)
	}
	tokens = append(tokens, "garbage")

	results := c.dec.DecodeAll(context.Background(), tokens)
	require.Len(t, results, len(tokens))
	for i, p := range parts {
		assert.Equal(t, i, results[i].Index)
		require.NoError(t, results[i].Err)
		assert.Equal(t, p, results[i].Decoded.LSP)
	}
	assert.True(t, errors.IsMalformedToken(results[8].Err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, r := range c.dec.DecodeAll(ctx, tokens) {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Nil(t, r.Decoded)
	}

	assert.Empty(t, c.dec.DecodeAll(context.Background(), nil))
}
