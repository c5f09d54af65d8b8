package events

import "testing"

func TestSimpleBusDelivers(t *testing.T) {
	bus := NewSimpleBus()
	var quests, achievements Counter
	bus.Subscribe("quests", quests.Handle)
	bus.Subscribe("achievements", achievements.Handle)

	bus.Publish(Event{Kind: KindCombine, Count: 1})
	bus.Publish(Event{Kind: KindUpgrade, Count: 1})
	bus.Publish(Event{Kind: KindUpgrade, Count: 2})

	if quests.Total(KindCombine) != 1 || quests.Total(KindUpgrade) != 3 {
		t.Fatalf("quests got combine=%d upgrade=%d", quests.Total(KindCombine), quests.Total(KindUpgrade))
	}
	if achievements.Total(KindUpgrade) != 3 {
		t.Fatalf("achievements got upgrade=%d", achievements.Total(KindUpgrade))
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewSimpleBus()
	var c Counter
	bus.Subscribe("c", c.Handle)
	bus.Unsubscribe("c")
	bus.Publish(Event{Kind: KindCombine, Count: 1})
	if c.Total(KindCombine) != 0 {
		t.Fatalf("unsubscribed handler still called")
	}
}

func TestNullBus(t *testing.T) {
	var bus Bus = NullBus{}
	bus.Subscribe("x", func(Event) { t.Fatalf("null bus delivered") })
	bus.Publish(Event{Kind: KindUpgrade, Count: 1})
}
