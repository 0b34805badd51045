// Package catalog 静态礼物目录：礼物类型、心情、收件人类型与祝福语模板
package catalog

import (
	"math/rand"
	"strings"
)

// DefaultMessage 没有可用模板时的兜底祝福语
const DefaultMessage = "Let's create special moments together! 💝"

// Mood 祝福语语气
type Mood string

const (
	MoodCute      Mood = "cute"
	MoodFun       Mood = "fun"
	MoodHeartfelt Mood = "heartfelt"
	MoodEvent     Mood = "event"
)

// MoodInfo 语气展示信息
type MoodInfo struct {
	ID    Mood   `json:"id"`
	Label string `json:"label"`
	Style string `json:"style"` // 生成提示词中的语气描述
}

// Moods 全部语气，按展示顺序
var Moods = []MoodInfo{
	{ID: MoodCute, Label: "Cute", Style: "in a cute and adorable way"},
	{ID: MoodFun, Label: "Fun", Style: "in a fun and cheerful way"},
	{ID: MoodHeartfelt, Label: "Heartfelt", Style: "in a heartfelt and warm way"},
	{ID: MoodEvent, Label: "Celebration", Style: "in a celebratory and joyful way"},
}

// RecipientTypes 收件人类型
var RecipientTypes = []string{"friend", "partner", "family"}

// GiftType 礼物类型
type GiftType struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// GiftTypes 全部礼物类型，按展示顺序
var GiftTypes = []GiftType{
	{ID: "full-body-massage", Title: "Full Body Massage", Description: "60 minutes of pure relaxation. Let me melt your stress away ✨", Emoji: "💆‍♀️"},
	{ID: "coffee-dessert-day", Title: "Unlimited Coffee & Dessert Day", Description: "All-day sweet adventure. Visit as many cafés and dessert spots as you want 🍫", Emoji: "☕🍰"},
	{ID: "spa-day", Title: "Spa Day", Description: "Do nothing. Just relax and unwind 🌿", Emoji: "🛁"},
	{ID: "romantic-dinner", Title: "Romantic Dinner Night", Description: "Ambience, food, and vibes all set up for you", Emoji: "🍷🍝"},
	{ID: "cook-for-you", Title: "A Private Chef Experience", Description: "Just tell me what you want to eat. I am your personal chef today 😋", Emoji: "👩‍🍳"},
	{ID: "one-free-wish", Title: "One Free Wish", Description: "Anything realistic. One-time magic is yours to claim ✨", Emoji: "🌟"},
	{ID: "movie-night", Title: "Movie Night", Description: "Pick the movie. I will handle everything for the perfect theater night 🍿", Emoji: "🎬"},
	{ID: "forgive-mistake", Title: "Forgive-One-Mistake Coupon", Description: "Instant forgiveness. No questions, no arguments 🙏", Emoji: "💖"},
	{ID: "write-letter", Title: "A Handwritten Letter", Description: "Handwritten, heartfelt. 1000 plus words of love and thoughts 💌", Emoji: "✍️"},
	{ID: "buy-me-this", Title: "A Thoughtful Gift", Description: "That one thing you have been eyeing. Yours, no questions asked 😍", Emoji: "🎁"},
	{ID: "pack-lunchbox", Title: "A Lunch Surprise", Description: "Homemade lunchbox. With a little video showing the making process 🎥", Emoji: "🥪"},
	{ID: "trip-together", Title: "Trip Together", Description: "You choose the destination. Just bring yourself 🧳. I will cover everything else 💕", Emoji: "✈️"},
}

var giftIndex = func() map[string]GiftType {
	m := make(map[string]GiftType, len(GiftTypes))
	for _, g := range GiftTypes {
		m[g.ID] = g
	}
	return m
}()

// LookupGift 按 ID 查找礼物类型
func LookupGift(id string) (GiftType, bool) {
	g, ok := giftIndex[id]
	return g, ok
}

// GiftTitle 礼物标题，未知类型原样返回 ID
func GiftTitle(id string) string {
	if g, ok := giftIndex[id]; ok {
		return g.Title
	}
	return id
}

// IsValidMood 是否为已知语气
func IsValidMood(m string) bool {
	for _, info := range Moods {
		if string(info.ID) == m {
			return true
		}
	}
	return false
}

// MoodStyle 语气描述，未知语气回退到通用描述
func MoodStyle(m string) string {
	for _, info := range Moods {
		if string(info.ID) == m {
			return info.Style
		}
	}
	return "in a warm way"
}

// IsValidRecipientType 是否为已知收件人类型
func IsValidRecipientType(t string) bool {
	for _, rt := range RecipientTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// Templates 指定礼物类型与语气的模板；语气无模板时返回该礼物全部模板
func Templates(giftType string, mood Mood) []string {
	byMood, ok := templates[giftType]
	if !ok {
		return nil
	}
	if list := byMood[mood]; len(list) > 0 {
		return list
	}
	var all []string
	for _, m := range Moods {
		all = append(all, byMood[m.ID]...)
	}
	return all
}

// RandomMessage 随机挑选模板并替换姓名；无模板时返回 DefaultMessage
func RandomMessage(rng *rand.Rand, giftType string, mood Mood, recipientName, senderName string) string {
	list := Templates(giftType, mood)
	if len(list) == 0 {
		return DefaultMessage
	}
	var idx int
	if rng != nil {
		idx = rng.Intn(len(list))
	} else {
		idx = rand.Intn(len(list))
	}
	return Render(list[idx], recipientName, senderName)
}

// Render 替换 {recipient} / {sender} 占位符，姓名为空时使用 "you" / "me"
func Render(tmpl, recipientName, senderName string) string {
	recipient := strings.TrimSpace(recipientName)
	if recipient == "" {
		recipient = "you"
	}
	sender := strings.TrimSpace(senderName)
	if sender == "" {
		sender = "me"
	}
	return strings.NewReplacer(
		"{recipientName}", recipient,
		"{senderName}", sender,
		"{recipient}", recipient,
		"{sender}", sender,
	).Replace(tmpl)
}
