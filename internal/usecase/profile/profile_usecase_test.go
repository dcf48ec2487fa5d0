package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/infrastructure/gemini"
	"github.com/qupid-app/qupid-backend/internal/repository/kv"
	"github.com/qupid-app/qupid-backend/internal/storage"
	"github.com/qupid-app/qupid-backend/pkg/validation"
)

func ptr[T any](v T) *T { return &v }

type stubGenerator struct {
	got gemini.BioInput
	err error
}

func (g *stubGenerator) GenerateBios(_ context.Context, in gemini.BioInput) ([]string, error) {
	g.got = in
	if g.err != nil {
		return nil, g.err
	}
	return []string{"bio one", "bio two"}, nil
}

func newUseCase(gen BioGenerator) *ProfileUseCase {
	store := storage.NewMemoryStore()
	return NewProfileUseCase(kv.NewProfileRepository(store), gen, validation.New(), zap.NewNop())
}

func TestGetMyProfile_Default(t *testing.T) {
	uc := newUseCase(nil)

	p, err := uc.GetMyProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, 18, p.Age)
	assert.Equal(t, "athletic", p.Avatar.BodyType)
	assert.Equal(t, 18, p.Preferences.AgeMin)
	assert.Equal(t, 35, p.Preferences.AgeMax)
	assert.Equal(t, "nearby", p.Preferences.Distance)
	assert.Equal(t, domain.VerificationPending, p.VerificationStatus)
	assert.False(t, p.OnboardingComplete)
}

func TestUpdateProfile_ShallowMerge(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(nil)

	_, err := uc.UpdateProfile(ctx, "u1", &domain.ProfilePatch{
		DisplayName: ptr("Sam"),
		Bio:         ptr("hello"),
	})
	require.NoError(t, err)

	p, err := uc.UpdateProfile(ctx, "u1", &domain.ProfilePatch{Bio: ptr("updated")})
	require.NoError(t, err)
	assert.Equal(t, "Sam", p.DisplayName)
	assert.Equal(t, "updated", p.Bio)

	stored, err := uc.GetMyProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "updated", stored.Bio)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestUpdateProfile_Validation(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(nil)

	_, err := uc.UpdateProfile(ctx, "u1", &domain.ProfilePatch{
		Interests: ptr([]string{"a", "b"}),
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "interests")

	p, err := uc.GetMyProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, p.Interests, "rejected updates are not saved")
}

func TestUpdateAvatar(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(nil)

	avatar := &domain.Avatar{
		BodyType:    "slim",
		SkinTone:    "dark",
		HairStyle:   "curly",
		HairColor:   "black",
		Outfit:      "creative",
		Accessories: []string{"glasses", "earrings"},
	}
	p, err := uc.UpdateAvatar(ctx, "u1", avatar)
	require.NoError(t, err)
	assert.Equal(t, *avatar, p.Avatar)

	bad := *avatar
	bad.Outfit = "spacesuit"
	_, err = uc.UpdateAvatar(ctx, "u1", &bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tooMany := *avatar
	tooMany.Accessories = []string{"glasses", "earrings", "hat", "scarf"}
	_, err = uc.UpdateAvatar(ctx, "u1", &tooMany)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateBio(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable without generator", func(t *testing.T) {
		uc := newUseCase(nil)
		_, err := uc.GenerateBio(ctx, "u1", &GenerateBioRequest{})
		assert.ErrorIs(t, err, domain.ErrFeatureUnavailable)
	})

	t.Run("uses the stored profile", func(t *testing.T) {
		gen := &stubGenerator{}
		uc := newUseCase(gen)
		_, err := uc.UpdateProfile(ctx, "u1", &domain.ProfilePatch{
			DisplayName: ptr("Sam"),
			Interests:   ptr([]string{"hiking", "jazz", "cooking"}),
			CityBucket:  ptr("north_side"),
		})
		require.NoError(t, err)

		resp, err := uc.GenerateBio(ctx, "u1", &GenerateBioRequest{Tone: "witty"})
		require.NoError(t, err)
		assert.Equal(t, []string{"bio one", "bio two"}, resp.Suggestions)
		assert.Equal(t, "Sam", gen.got.DisplayName)
		assert.Equal(t, "north_side", gen.got.CityBucket)
		assert.Equal(t, "witty", gen.got.Tone)
	})

	t.Run("generator failure", func(t *testing.T) {
		uc := newUseCase(&stubGenerator{err: errors.New("quota")})
		_, err := uc.GenerateBio(ctx, "u1", &GenerateBioRequest{})
		assert.Error(t, err)
	})
}
