package console

import (
	"math/rand"
	"strconv"
	"strings"
)

// Table talk, keyed by the decision it accompanies. Placeholders: {name},
// {qty}, {face}, {target}.
var (
	openingTalk = []string{
		"[{name}] Hmm... let's start with this...",
		"[{name}] Starting strong with {qty} {face}'s.",
		"[{name}] Don't get too confident {target}.",
		"[{name}] Haha, good luck guys.",
		"[{name}] Let's start off slowly.",
		"[{name}] Well this is interesting...",
		"[{name}] I've already won this game.",
		"[{name}] Let's get this started.",
		"[{name}] Careful, {target}. I'm watching you.",
		"[{name}] I can feel the tension in the air.",
	}
	raiseTalk = []string{
		"[{name}] Let's go with {qty} {face}'s.",
		"[{name}] Aww scared are we? {qty} {face}'s.",
		"[{name}] Haha, try this, {qty} {face}'s.",
		"[{name}] Watch and learn... {qty} {face}'s.",
		"[{name}] Can you top that? {qty} {face}'s.",
		"[{name}] I raise it to {qty} {face}'s.",
		"[{name}] {qty} {face}'s.",
		"[{name}] Let's see how you guys handle {qty} {face}'s.",
		"[{name}] This is the last truthful bid. {qty} {face}'s.",
	}
	callTalk = []string{
		"[{name}] Haha, that's a bluff.",
		"[{name}] Bluff! No way that's true.",
		"[{name}] I don't buy it.",
		"[{name}] Let's see what you're hiding.",
		"[{name}] I'm calling you out!",
		"[{name}] You sure about that one?",
		"[{name}] Not convinced.",
		"[{name}] Let's check those dice.",
		"[{name}] I think you're fibbing.",
		"[{name}] Even you know that bid was too high.",
	}
)

type talkVars struct {
	Name   string
	Qty    int
	Face   int
	Target string
}

func pickLine(rng *rand.Rand, lines []string, v talkVars) string {
	return strings.NewReplacer(
		"{name}", v.Name,
		"{qty}", strconv.Itoa(v.Qty),
		"{face}", strconv.Itoa(v.Face),
		"{target}", v.Target,
	).Replace(lines[rng.Intn(len(lines))])
}
