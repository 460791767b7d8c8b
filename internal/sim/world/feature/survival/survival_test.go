package survival

import "testing"

func TestHungerAfterTick(t *testing.T) {
	if got := HungerAfterTick(10); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
	if got := HungerAfterTick(0); got != 0 {
		t.Fatalf("expected clamped 0, got %d", got)
	}
}

func TestRatesFor(t *testing.T) {
	r := RatesFor(20)
	if r.HungerEvery != 600 || r.RegenEvery != 100 || r.DayLength != 6000 {
		t.Fatalf("unexpected rates: %+v", r)
	}
	if RatesFor(0) != (Rates{}) {
		t.Fatalf("expected zero rates for a zero tick rate")
	}
}

func TestTickHungerAndRegen(t *testing.T) {
	r := Rates{HungerEvery: 30, RegenEvery: 5}

	// Off-interval ticks change nothing.
	s, starved := Tick(State{HP: 50, Hunger: 50}, 7, r)
	if s != (State{HP: 50, Hunger: 50}) || starved {
		t.Fatalf("expected no change, got %+v starved=%v", s, starved)
	}

	s, _ = Tick(State{HP: 50, Hunger: 50}, 5, r)
	if s.HP != 51 || s.Hunger != 50 {
		t.Fatalf("expected regen to 51, got %+v", s)
	}

	// Tick 30 is on both intervals.
	s, _ = Tick(State{HP: 50, Hunger: 50}, 30, r)
	if s.HP != 51 || s.Hunger != 49 {
		t.Fatalf("expected hunger 49 and hp 51, got %+v", s)
	}

	s, _ = Tick(State{HP: 50, Hunger: RegenMinHunger - 1}, 5, r)
	if s.HP != 50 {
		t.Fatalf("expected no regen below %d hunger, got hp %d", RegenMinHunger, s.HP)
	}

	s, _ = Tick(State{HP: MaxHP, Hunger: 80}, 5, r)
	if s.HP != MaxHP {
		t.Fatalf("expected hp capped at %d, got %d", MaxHP, s.HP)
	}

	s, _ = Tick(State{HP: 0, Hunger: 80}, 5, r)
	if s.HP != 0 {
		t.Fatalf("downed player must not regenerate, got hp %d", s.HP)
	}
}

func TestTickStarvation(t *testing.T) {
	r := Rates{HungerEvery: 30, RegenEvery: 5}
	s, starved := Tick(State{HP: 10, Hunger: 0}, 60, r)
	if !starved || s.HP != 9 {
		t.Fatalf("expected starvation to 9, got %+v starved=%v", s, starved)
	}
	s, starved = Tick(State{HP: 0, Hunger: 0}, 60, r)
	if starved || s.HP != 0 {
		t.Fatalf("expected no damage at 0 hp, got %+v starved=%v", s, starved)
	}
}

func TestIsDay(t *testing.T) {
	if !IsDay(0, 100) || !IsDay(99, 100) {
		t.Fatalf("expected day during the first period")
	}
	if IsDay(100, 100) || IsDay(199, 100) {
		t.Fatalf("expected night during the second period")
	}
	if !IsDay(200, 100) {
		t.Fatalf("expected day again after a full cycle")
	}
	if !IsDay(12345, 0) {
		t.Fatalf("zero day length means permanent day")
	}
}

func TestApplyFood(t *testing.T) {
	s := ApplyFood(State{HP: 50, Hunger: 10}, MeatFood, 1)
	if s.HP != 60 || s.Hunger != 30 {
		t.Fatalf("unexpected state after one meat: %+v", s)
	}
	s = ApplyFood(State{HP: 95, Hunger: 90}, MeatFood, 3)
	if s.HP != MaxHP || s.Hunger != MaxHunger {
		t.Fatalf("expected caps, got %+v", s)
	}
	if got := ApplyFood(State{HP: 1, Hunger: 1}, 0, 1); got != (State{HP: 1, Hunger: 1}) {
		t.Fatalf("zero food must not change state, got %+v", got)
	}
	if NormalizeConsumeCount(0) != 1 || NormalizeConsumeCount(3) != 3 {
		t.Fatalf("NormalizeConsumeCount mismatch")
	}
}
