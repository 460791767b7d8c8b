// Package survival ticks the player's hunger and health, applies food and
// tracks the day/night cycle.
package survival

const (
	MaxHP     = 100
	MaxHunger = 100

	// HP regenerates only while hunger is at least RegenMinHunger.
	RegenMinHunger = 20

	HungerEverySeconds = 30
	RegenEverySeconds  = 5
	// Day and night each last DayLengthSeconds.
	DayLengthSeconds = 300

	// MeatFood is the food value of one piece of meat.
	MeatFood = 10
)

type State struct {
	HP     int
	Hunger int
}

// Rates are the survival intervals in ticks. A zero interval disables that
// clock.
type Rates struct {
	HungerEvery uint64
	RegenEvery  uint64
	DayLength   uint64
}

func RatesFor(tickRateHz int) Rates {
	if tickRateHz <= 0 {
		return Rates{}
	}
	hz := uint64(tickRateHz)
	return Rates{
		HungerEvery: HungerEverySeconds * hz,
		RegenEvery:  RegenEverySeconds * hz,
		DayLength:   DayLengthSeconds * hz,
	}
}

func HungerAfterTick(hunger int) int {
	if hunger <= 1 {
		return 0
	}
	return hunger - 1
}

// Tick advances s to nowTick. Hunger drops once per HungerEvery ticks; with an
// empty stomach the player loses 1 HP instead. HP regenerates once per
// RegenEvery ticks while hunger is high enough. A downed player (HP 0) does not
// regenerate. starved reports starvation damage on this tick.
func Tick(s State, nowTick uint64, r Rates) (next State, starved bool) {
	next = s
	if r.HungerEvery > 0 && nowTick%r.HungerEvery == 0 {
		if next.Hunger > 0 {
			next.Hunger = HungerAfterTick(next.Hunger)
		} else if next.HP > 0 {
			next.HP--
			starved = true
		}
	}
	if r.RegenEvery > 0 && nowTick%r.RegenEvery == 0 &&
		next.Hunger >= RegenMinHunger && next.HP > 0 && next.HP < MaxHP {
		next.HP++
	}
	return next, starved
}

// IsDay reports the phase of the cycle at dayTick. The cycle starts with day;
// a zero day length means permanent day.
func IsDay(dayTick, dayLength uint64) bool {
	if dayLength == 0 {
		return true
	}
	return (dayTick/dayLength)%2 == 0
}

func NormalizeConsumeCount(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}

// ApplyFood eats count pieces of food worth food each: HP rises by food and
// hunger by twice that, both capped.
func ApplyFood(s State, food int, count int) State {
	if food <= 0 || count <= 0 {
		return s
	}
	next := s
	for i := 0; i < count; i++ {
		next.HP += food
		if next.HP > MaxHP {
			next.HP = MaxHP
		}
		next.Hunger += food * 2
		if next.Hunger > MaxHunger {
			next.Hunger = MaxHunger
		}
	}
	return next
}
