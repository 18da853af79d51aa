package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	session "github.com/civicfix/go-session"
)

func TestProviderLoadingUntilFirstStreamEvent(t *testing.T) {
	feed := session.NewIdentityFeed()
	provider := session.NewProvider(feed)

	state := provider.State()
	assert.True(t, state.Loading)
	assert.Nil(t, state.User)
	assert.Nil(t, provider.CurrentUser())

	provider.Start(context.Background())
	defer provider.Stop()

	// no store: the provider announces signed-out as the first event
	assert.Eventually(t, func() bool {
		return !provider.State().Loading
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, provider.CurrentUser())
}

func TestProviderMirrorsStreamInOrder(t *testing.T) {
	feed := session.NewIdentityFeed()
	provider := session.NewProvider(feed)

	provider.Start(context.Background())
	defer provider.Stop()

	feed.Publish(&session.Session{Token: "one"})
	feed.Publish(&session.Session{Token: "two"})
	feed.Publish(&session.Session{Token: "three"})

	assert.Eventually(t, func() bool {
		user := provider.CurrentUser()
		return user != nil && user.Token == "three"
	}, time.Second, 5*time.Millisecond)
}

func TestProviderRestoresPersistedSession(t *testing.T) {
	feed := session.NewIdentityFeed()
	store := session.NewMemoryCredentialStore()
	store.Save(context.Background(), &session.Session{Token: "persisted", Role: session.RoleUser})

	verifier := &MockVerifier{}
	verifier.On("Verify", mock.Anything, "persisted").Return(session.VerifyValid).Once()

	provider := session.NewProvider(feed,
		session.WithProviderStore(store),
		session.WithProviderVerifier(verifier),
	)

	provider.Start(context.Background())
	defer provider.Stop()

	assert.Eventually(t, func() bool {
		user := provider.CurrentUser()
		return user != nil && user.Token == "persisted"
	}, time.Second, 5*time.Millisecond)

	// a valid verification leaves the session in place
	time.Sleep(50 * time.Millisecond)
	require.NotNil(t, provider.CurrentUser())
	verifier.AssertExpectations(t)
}

func TestProviderDegradesWhenRestoredSessionRejected(t *testing.T) {
	feed := session.NewIdentityFeed()
	store := session.NewMemoryCredentialStore()
	store.Save(context.Background(), &session.Session{Token: "stale"})

	verifier := &MockVerifier{}
	verifier.On("Verify", mock.Anything, "stale").Return(session.VerifyInvalid).Once()

	provider := session.NewProvider(feed,
		session.WithProviderStore(store),
		session.WithProviderVerifier(verifier),
	)

	provider.Start(context.Background())
	defer provider.Stop()

	assert.Eventually(t, func() bool {
		state := provider.State()
		return !state.Loading && state.User == nil
	}, time.Second, 5*time.Millisecond)
	verifier.AssertExpectations(t)
}

func TestProviderLoginPersistsAndAnnounces(t *testing.T) {
	feed := session.NewIdentityFeed()
	store := session.NewMemoryCredentialStore()

	client := &MockAuthClient{}
	client.On("Login", mock.Anything, mock.Anything).
		Return(&session.LoginResult{Token: "opaque-token"}, nil).Once()

	provider := session.NewProvider(feed,
		session.WithProviderStore(store),
		session.WithProviderClient(client),
	)

	provider.Start(context.Background())
	defer provider.Stop()

	got, err := provider.Login(context.Background(), session.LoginRequest{
		Email:    "citizen@example.com",
		Password: "secret1",
		Role:     session.RoleUser,
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "opaque-token", got.Token)
	// an opaque token carries no role claim; the payload role fills in
	assert.Equal(t, session.RoleUser, got.Role)

	stored := store.Load(context.Background())
	require.NotNil(t, stored)
	assert.Equal(t, "opaque-token", stored.Token)

	assert.Eventually(t, func() bool {
		user := provider.CurrentUser()
		return user != nil && user.Token == "opaque-token"
	}, time.Second, 5*time.Millisecond)
	client.AssertExpectations(t)
}

func TestProviderLoginFailurePropagates(t *testing.T) {
	feed := session.NewIdentityFeed()
	store := session.NewMemoryCredentialStore()

	client := &MockAuthClient{}
	client.On("Login", mock.Anything, mock.Anything).
		Return(nil, session.ErrAuthenticationFailed).Once()

	provider := session.NewProvider(feed,
		session.WithProviderStore(store),
		session.WithProviderClient(client),
	)

	provider.Start(context.Background())
	defer provider.Stop()

	_, err := provider.Login(context.Background(), session.LoginRequest{
		Email:    "citizen@example.com",
		Password: "wrong",
		Role:     session.RoleUser,
	})
	require.Error(t, err)
	assert.True(t, session.IsAuthenticationError(err))
	assert.Nil(t, store.Load(context.Background()))
}

func TestProviderLogoutIsIdempotent(t *testing.T) {
	feed := session.NewIdentityFeed()
	store := session.NewMemoryCredentialStore()
	store.Save(context.Background(), &session.Session{Token: "tok"})

	provider := session.NewProvider(feed, session.WithProviderStore(store))
	provider.Start(context.Background())
	defer provider.Stop()

	assert.Eventually(t, func() bool {
		return provider.CurrentUser() != nil
	}, time.Second, 5*time.Millisecond)

	provider.Logout()
	provider.Logout()

	assert.Eventually(t, func() bool {
		state := provider.State()
		return state.User == nil && !state.Loading
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, store.Load(context.Background()))
}

func TestProviderSubscribeObservesUpdates(t *testing.T) {
	feed := session.NewIdentityFeed()
	provider := session.NewProvider(feed)

	updates, unsubscribe := provider.Subscribe()
	defer unsubscribe()

	provider.Start(context.Background())
	defer provider.Stop()

	feed.Publish(&session.Session{Token: "tok"})

	deadline := time.After(time.Second)
	for {
		select {
		case state := <-updates:
			if state.User != nil && state.User.Token == "tok" {
				return
			}
		case <-deadline:
			t.Fatal("never observed the published session")
		}
	}
}

func TestProviderStopFreezesState(t *testing.T) {
	feed := session.NewIdentityFeed()
	provider := session.NewProvider(feed)

	provider.Start(context.Background())

	feed.Publish(&session.Session{Token: "before"})
	assert.Eventually(t, func() bool {
		user := provider.CurrentUser()
		return user != nil && user.Token == "before"
	}, time.Second, 5*time.Millisecond)

	provider.Stop()
	feed.Publish(&session.Session{Token: "after"})

	time.Sleep(50 * time.Millisecond)
	user := provider.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "before", user.Token)
}

func TestProviderContextCancellationUnsubscribes(t *testing.T) {
	feed := session.NewIdentityFeed()
	provider := session.NewProvider(feed)

	ctx, cancel := context.WithCancel(context.Background())
	provider.Start(ctx)

	assert.Eventually(t, func() bool {
		return !provider.State().Loading
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)

	feed.Publish(&session.Session{Token: "late"})
	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, provider.CurrentUser())
}
