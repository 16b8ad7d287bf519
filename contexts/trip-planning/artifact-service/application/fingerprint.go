package application

import (
	"fmt"
	"sort"
	"strings"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	"tripforge/contexts/trip-planning/artifact-service/ports"
)

// FingerprintInputs is the normalized input state a fingerprint is computed
// over. Only the fields relevant to the artifact kind participate.
type FingerprintInputs struct {
	TripID               string
	Destination          string
	StartDate            string
	EndDate              string
	Timezone             string
	Members              []ports.MemberAttr
	PreferencesUpdatedAt int64
	UnanimousOptionIDs   map[entities.Category][]string
}

// Fingerprint derives a deterministic hash of the inputs for one artifact
// kind. Member and option ordering is canonicalized so the hash is stable
// regardless of read order. Equal fingerprints mean regeneration can be
// skipped; they never prove the stored content is semantically identical.
func Fingerprint(kind entities.Kind, in FingerprintInputs) string {
	var b strings.Builder
	b.WriteString("trip=")
	b.WriteString(in.TripID)

	if kind == entities.KindSummary || kind == entities.KindItinerary {
		fmt.Fprintf(&b, ";dest=%s;start=%s;end=%s;tz=%s", in.Destination, in.StartDate, in.EndDate, in.Timezone)
	}

	members := make([]ports.MemberAttr, len(in.Members))
	copy(members, in.Members)
	sort.Slice(members, func(i, j int) bool { return members[i].MemberID < members[j].MemberID })
	for _, m := range members {
		fmt.Fprintf(&b, ";member=%s|%s", m.MemberID, m.DisplayName)
	}

	fmt.Fprintf(&b, ";prefs=%d", in.PreferencesUpdatedAt)

	if kind == entities.KindSummary {
		categories := make([]string, 0, len(in.UnanimousOptionIDs))
		for category := range in.UnanimousOptionIDs {
			categories = append(categories, string(category))
		}
		sort.Strings(categories)
		for _, category := range categories {
			ids := append([]string(nil), in.UnanimousOptionIDs[entities.Category(category)]...)
			sort.Strings(ids)
			fmt.Fprintf(&b, ";unanimous=%s:%s", category, strings.Join(ids, ","))
		}
	}

	return hashString(b.String())
}

// hashString folds the input into an unsigned 32-bit value using the
// multiply-by-33 XOR variant and renders it as fixed-width hex.
func hashString(s string) string {
	h := uint32(5381)
	for i := 0; i < len(s); i++ {
		h = h*33 ^ uint32(s[i])
	}
	return fmt.Sprintf("%08x", h)
}
