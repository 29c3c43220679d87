package identity

import (
	"fmt"
	"strconv"

	"github.com/BlakeMcBride1625/8bp-rewards-5.2-Public-sub002/internal/model"
)

const discordCDN = "https://cdn.discordapp.com"

// Identity is the resolved display identity for one account.
type Identity struct {
	DisplayUsername string
	AvatarURL       *string // nil = caller renders initial-letter fallback
}

// Resolve picks the display username and avatar URL for a profile. It never
// fails; missing or malformed fields degrade to the next priority tier or to
// a nil avatar.
//
// Username: when the profile opts into the Discord username and has a Discord
// ID, a caller-supplied sessionUsername is honored. The leaderboard evaluation
// context has no authenticated Discord session, so without one the resolver
// falls back to the stored username. The source system behaved the same way.
//
// Avatar priority, first match wins:
//  1. leaderboard image URL
//  2. Discord avatar (opt-in + Discord ID present)
//  3. locally stored 8 Ball Pool avatar under /avatars/
//  4. profile image URL
//  5. nil
func Resolve(profile model.AccountProfile, sessionUsername string) Identity {
	id := Identity{DisplayUsername: profile.Username}
	if profile.UseDiscordUsername && profile.DiscordID != "" && sessionUsername != "" {
		id.DisplayUsername = sessionUsername
	}

	switch {
	case profile.LeaderboardImageURL != "":
		id.AvatarURL = strptr(profile.LeaderboardImageURL)
	case profile.UseDiscordAvatar && profile.DiscordID != "":
		id.AvatarURL = strptr(discordAvatarURL(profile.DiscordID, profile.DiscordAvatarHash))
	case profile.EightBallPoolAvatarFilename != "":
		id.AvatarURL = strptr("/avatars/" + profile.EightBallPoolAvatarFilename)
	case profile.ProfileImageURL != "":
		id.AvatarURL = strptr(profile.ProfileImageURL)
	}

	return id
}

// discordAvatarURL builds the CDN URL for a Discord avatar. Account flows
// upstream stored the literal strings "null" and "undefined" in the hash
// column; both mean no custom avatar.
func discordAvatarURL(discordID, hash string) string {
	if hash != "" && hash != "null" && hash != "undefined" {
		return fmt.Sprintf("%s/avatars/%s/%s.png", discordCDN, discordID, hash)
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", discordCDN, defaultAvatarIndex(discordID))
}

// defaultAvatarIndex maps a Discord snowflake to one of the five default
// avatars. Snowflakes exceed int32 but fit int64; an unparseable ID falls
// back to index 0.
func defaultAvatarIndex(discordID string) int {
	n, err := strconv.ParseUint(discordID, 10, 64)
	if err != nil {
		return 0
	}
	return int(n % 5)
}

func strptr(s string) *string {
	return &s
}
