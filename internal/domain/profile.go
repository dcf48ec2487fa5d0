package domain

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// MaxAvatarAccessories caps the accessories an avatar can wear.
const MaxAvatarAccessories = 3

type Avatar struct {
	BodyType    string   `json:"body_type" validate:"required,oneof=athletic curvy slim plus"`
	SkinTone    string   `json:"skin_tone" validate:"required,oneof=light medium-light medium medium-dark dark"`
	HairStyle   string   `json:"hair_style" validate:"required,oneof=short medium long curly braids buzz"`
	HairColor   string   `json:"hair_color" validate:"required,oneof=black brown blonde red gray colorful"`
	Outfit      string   `json:"outfit" validate:"required,oneof=casual business creative athletic elegant"`
	Accessories []string `json:"accessories" validate:"max=3,unique,dive,required,max=32"`
}

type Preferences struct {
	AgeMin       int      `json:"age_min" validate:"min=18,max=64"`
	AgeMax       int      `json:"age_max" validate:"gtfield=AgeMin,max=65"`
	Distance     string   `json:"distance" validate:"required,oneof=close nearby city region"`
	DealBreakers []string `json:"deal_breakers" validate:"unique,dive,oneof=smoking heavy_drinking no_exercise different_religion no_kids wants_kids lives_with_parents no_career_ambition party_lifestyle different_politics dislikes_animals long_distance"`
}

type Profile struct {
	UserID             string             `json:"user_id"`
	DisplayName        string             `json:"display_name"`
	Pronouns           string             `json:"pronouns"`
	Orientation        string             `json:"orientation"`
	Age                int                `json:"age"`
	Bio                string             `json:"bio"`
	Interests          []string           `json:"interests"`
	Values             []string           `json:"values"`
	Avatar             Avatar             `json:"avatar"`
	CityBucket         string             `json:"city_bucket"`
	Preferences        Preferences        `json:"preferences"`
	IdentityVerified   bool               `json:"identity_verified"`
	OnboardingComplete bool               `json:"onboarding_complete"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewDefaultProfile returns the empty profile a new account starts with.
func NewDefaultProfile(userID string) *Profile {
	return &Profile{
		UserID:    userID,
		Age:       MinimumAge,
		Interests: []string{},
		Values:    []string{},
		Avatar: Avatar{
			BodyType:    "athletic",
			SkinTone:    "medium",
			HairStyle:   "short",
			HairColor:   "brown",
			Outfit:      "casual",
			Accessories: []string{},
		},
		Preferences: Preferences{
			AgeMin:       18,
			AgeMax:       35,
			Distance:     "nearby",
			DealBreakers: []string{},
		},
		VerificationStatus: VerificationPending,
	}
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Interests = cloneStrings(p.Interests)
	c.Values = cloneStrings(p.Values)
	c.Avatar.Accessories = cloneStrings(p.Avatar.Accessories)
	c.Preferences.DealBreakers = cloneStrings(p.Preferences.DealBreakers)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	DisplayName      *string      `json:"display_name,omitempty" validate:"omitempty,notblank,max=50"`
	Pronouns         *string      `json:"pronouns,omitempty" validate:"omitempty,oneof=she/her he/him they/them she/they he/they other"`
	Orientation      *string      `json:"orientation,omitempty" validate:"omitempty,oneof=straight gay lesbian bisexual pansexual asexual queer other"`
	Age              *int         `json:"age,omitempty" validate:"omitempty,min=18,max=120"`
	Bio              *string      `json:"bio,omitempty" validate:"omitempty,max=300"`
	Interests        *[]string    `json:"interests,omitempty" validate:"omitempty,min=3,max=12,unique,dive,notblank,max=40"`
	Values           *[]string    `json:"values,omitempty" validate:"omitempty,min=3,max=8,unique,dive,notblank,max=40"`
	Avatar           *Avatar      `json:"avatar,omitempty"`
	CityBucket       *string      `json:"city_bucket,omitempty" validate:"omitempty,oneof=downtown north_side south_side east_side west_side suburbs nearby_cities"`
	Preferences      *Preferences `json:"preferences,omitempty"`
	IdentityVerified *bool        `json:"-"`
}

// Apply merges the set fields of the patch into p.
func (pp *ProfilePatch) Apply(p *Profile) {
	if pp == nil {
		return
	}
	if pp.DisplayName != nil {
		p.DisplayName = *pp.DisplayName
	}
	if pp.Pronouns != nil {
		p.Pronouns = *pp.Pronouns
	}
	if pp.Orientation != nil {
		p.Orientation = *pp.Orientation
	}
	if pp.Age != nil {
		p.Age = *pp.Age
	}
	if pp.Bio != nil {
		p.Bio = *pp.Bio
	}
	if pp.Interests != nil {
		p.Interests = cloneStrings(*pp.Interests)
	}
	if pp.Values != nil {
		p.Values = cloneStrings(*pp.Values)
	}
	if pp.Avatar != nil {
		a := *pp.Avatar
		a.Accessories = cloneStrings(pp.Avatar.Accessories)
		p.Avatar = a
	}
	if pp.CityBucket != nil {
		p.CityBucket = *pp.CityBucket
	}
	if pp.Preferences != nil {
		prefs := *pp.Preferences
		prefs.DealBreakers = cloneStrings(pp.Preferences.DealBreakers)
		p.Preferences = prefs
	}
	if pp.IdentityVerified != nil {
		p.IdentityVerified = *pp.IdentityVerified
	}
}
