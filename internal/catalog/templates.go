package catalog

// templates 按礼物类型、心情分组的祝福语模板，支持 {recipient} / {sender} 占位符
var templates = map[string]map[Mood][]string{
	"full-body-massage": {
		MoodCute: {
			"Time to relax and let me take care of you! 💆‍♀️✨ You deserve this moment of pure bliss!",
			"60 minutes of just you and me, and lots of love! 💕 Let's melt away all your stress together!",
		},
		MoodFun: {
			"Get ready for the best 60 minutes of your week! 💆‍♀️🎉 Stress, you're officially evicted!",
			"Massage time! No phones, no worries, just pure relaxation vibes! ✨💆‍♀️",
		},
		MoodHeartfelt: {
			"{recipient}, you give so much to others. Now it's time to receive. Let me take care of you, my love 💝 Love, {sender}",
			"This is my way of saying thank you for everything you do. You deserve this moment of peace 💕",
		},
		MoodEvent: {
			"Celebrating you! 🎉 A full body massage to honor how amazing you are! 💆‍♀️✨",
			"Special occasion calls for special treatment! Here's to you and your amazing self! 🎊💕",
		},
	},
	"coffee-dessert-day": {
		MoodCute: {
			"All the coffee and desserts your heart desires! ☕🍰 Let's make today extra sweet together! 💕",
			"Sweet tooth activated! 🍫✨ Today is all about indulging in your favorite treats!",
		},
		MoodFun: {
			"Caffeine and sugar overload approved! ☕🍰 Let's hit every café and dessert spot in town! 🎉",
			"Warning: Extreme sweetness ahead! ☕🍰 Prepare for the ultimate dessert marathon! 🍫🎊",
		},
		MoodHeartfelt: {
			"{recipient}, a whole day dedicated to your favorite things. Because you deserve every moment of joy ☕🍰💝 Love, {sender}",
			"Let's slow down and savor the simple pleasures together. Coffee, desserts, and us ☕🍰💕",
		},
		MoodEvent: {
			"Celebrating with unlimited coffee and desserts! ☕🍰🎉 Today is all about indulgence! ✨",
			"Special day calls for special treats! ☕🍰 Let's make this celebration extra sweet! 🎊",
		},
	},
	"spa-day": {
		MoodCute: {
			"Your personal spa day is here! 🛁✨ Time to relax, unwind, and just be you! 💕",
			"No plans, no stress, just pure relaxation! 🛁💝 Today is all about you!",
		},
		MoodFun: {
			"Spa day activated! 🛁🎉 Leave your worries at the door and let's get pampered! ✨",
			"Stress? Never heard of it! 🛁✨ Today is all about maximum relaxation! 🎊",
		},
		MoodHeartfelt: {
			"{recipient}, you work so hard. Today, let me take care of everything so you can truly rest 🛁💝 Love, {sender}",
			"A day of peace and tranquility, just for you. You deserve this moment of calm 🛁💕",
		},
		MoodEvent: {
			"Celebrating with the ultimate spa day! 🛁🎉 You deserve this moment of pure luxury! ✨",
			"Special occasion = special treatment! 🛁✨ Let's make this spa day unforgettable! 🎊",
		},
	},
	"romantic-dinner": {
		MoodCute: {
			"A romantic dinner just for us! 🍷🍝✨ Candles, good food, and even better company! 💕",
			"Dinner date night is set! 🍷🍝 Let's make this evening extra special together! 💝",
		},
		MoodFun: {
			"Romantic dinner mode: ACTIVATED! 🍷🍝🎉 Get ready for the best date night ever! ✨",
			"Fancy dinner, fancy vibes! 🍷🍝✨ Let's turn this into an unforgettable night! 🎊",
		},
		MoodHeartfelt: {
			"{recipient}, a quiet dinner together, just us. Because these moments are what I treasure most 🍷🍝💝 Love, {sender}",
			"Let's slow down and savor this evening together. Good food, great conversation, and you 🍷🍝💕",
		},
		MoodEvent: {
			"Celebrating with a romantic dinner! 🍷🍝🎉 Tonight is all about us! ✨",
			"Special occasion calls for a special dinner! 🍷🍝✨ Let's celebrate in style! 🎊",
		},
	},
	"cook-for-you": {
		MoodCute: {
			"Your personal chef is ready! 👩‍🍳✨ Just tell me what you're craving and I'll make it! 💕",
			"Kitchen takeover mode: ON! 👩‍🍳✨ Today, I'm cooking everything you want! 😋",
		},
		MoodFun: {
			"Private chef service, coming right up! 👩‍🍳🎉 What's on the menu? Your choice! ✨",
			"Kitchen adventures await! 👩‍🍳🎊 Tell me what you want and watch the magic happen! 😋",
		},
		MoodHeartfelt: {
			"{recipient}, let me cook for you today. Because taking care of you brings me so much joy 👩‍🍳💝 Love, {sender}",
			"There's something special about preparing a meal for someone you love. Today, it's all for you 👩‍🍳💕",
		},
		MoodEvent: {
			"Celebrating with a private chef experience! 👩‍🍳🎉 What would you like to feast on? ✨",
			"Special occasion = special menu! 👩‍🍳✨ Tell me your dream meal and I'll make it! 🎊",
		},
	},
	"one-free-wish": {
		MoodCute: {
			"One wish, coming right up! 🌟✨ What would make you the happiest? 💕",
			"Your wish is my command! 🌟💝 Tell me what you've been dreaming of! ✨",
		},
		MoodFun: {
			"Wish mode: ACTIVATED! 🌟🎉 What would make today absolutely amazing? ✨",
			"One wish, unlimited possibilities! 🌟🎊 What's on your wish list? 💕",
		},
		MoodHeartfelt: {
			"{recipient}, tell me what would bring you joy, and I'll do everything in my power to make it happen 🌟💝 Love, {sender}",
			"Your happiness means everything to me. What is one thing that would make you smile? 🌟💕",
		},
		MoodEvent: {
			"Celebrating with a wish granted! 🌟🎉 What would make this occasion perfect? ✨",
			"Special occasion = special wish! 🌟✨ What would make this moment unforgettable? 🎊",
		},
	},
	"movie-night": {
		MoodCute: {
			"Movie night, all set up! 🎬🍿✨ Pick the movie and I'll handle the rest! 💕",
			"Cozy movie night incoming! 🎬🍿💝 Snacks, blankets, and you! ✨",
		},
		MoodFun: {
			"Movie night extravaganza! 🎬🍿🎉 What are we watching? You choose! ✨",
			"Theater night mode: ACTIVATED! 🎬🍿🎊 Get ready for the ultimate movie experience! 💕",
		},
		MoodHeartfelt: {
			"{recipient}, let's spend the evening together, just us and a good movie. These quiet moments are everything 🎬🍿💝 Love, {sender}",
			"A cozy night in, watching something we love together. Perfect simplicity 🎬🍿💕",
		},
		MoodEvent: {
			"Celebrating with the perfect movie night! 🎬🍿🎉 What should we watch? ✨",
			"Special occasion = special movie night! 🎬🍿✨ Let's make it unforgettable! 🎊",
		},
	},
	"forgive-mistake": {
		MoodCute: {
			"All is forgiven, no questions asked! 💖✨ Let's move forward together! 💕",
			"Fresh start, clean slate! 💖💝 Here's to new beginnings! ✨",
		},
		MoodFun: {
			"Mistake? What mistake? 💖🎉 All good, let's keep moving forward! ✨",
			"Forgiveness mode: ACTIVATED! 💖🎊 Clean slate, here we go! 💕",
		},
		MoodHeartfelt: {
			"{recipient}, we all make mistakes. What matters is that we learn and grow together. I forgive you 💖💝 Love, {sender}",
			"Let's move past this and focus on what we have. Our bond is stronger than any mistake 💖💕",
		},
		MoodEvent: {
			"Celebrating a fresh start! 💖🎉 All is forgiven, here's to new beginnings! ✨",
			"Special occasion = special forgiveness! 💖✨ Let's mark this moment with a clean slate! 🎊",
		},
	},
	"write-letter": {
		MoodCute: {
			"A handwritten letter, just for you! ✍️💌 1000+ words of love and thoughts! 💕",
			"Time to put pen to paper and write you something special! ✍️💝 Get ready for lots of words! ✨",
		},
		MoodFun: {
			"Letter-writing mode: ACTIVATED! ✍️🎉 Get ready for 1000+ words of awesomeness! ✨",
			"Warning: Extreme wordiness ahead! ✍️🎊 1000+ words of pure love incoming! 💕",
		},
		MoodHeartfelt: {
			"{recipient}, sometimes words on paper can say what spoken words cannot. This letter is my heart, written for you ✍️💝 Love, {sender}",
			"1000+ words to express everything I feel but struggle to say. This letter is my love, in writing ✍️💕",
		},
		MoodEvent: {
			"Celebrating with a handwritten letter! ✍️🎉 1000+ words of love and celebration! ✨",
			"Special occasion = special letter! ✍️✨ 1000+ words to mark this moment! 🎊",
		},
	},
	"buy-me-this": {
		MoodCute: {
			"That thing you've been eyeing? It's yours! 🎁✨ No questions asked! 💕",
			"Your wish list item, coming right up! 🎁💝 Tell me what you want and it's yours! ✨",
		},
		MoodFun: {
			"Gift mode: ACTIVATED! 🎁🎉 What's on your wish list? It's yours! ✨",
			"Warning: Extreme generosity ahead! 🎁🎊 What would make you happy? 💕",
		},
		MoodHeartfelt: {
			"{recipient}, i want to give you something that brings you joy. What is that one thing you've been wanting? 🎁💝 Love, {sender}",
			"Seeing you happy makes me happy. Tell me what would bring a smile to your face, and it's yours 🎁💕",
		},
		MoodEvent: {
			"Celebrating with a thoughtful gift! 🎁🎉 What would make this occasion perfect? ✨",
			"Special occasion = special gift! 🎁✨ What's on your wish list? 🎊",
		},
	},
	"pack-lunchbox": {
		MoodCute: {
			"A homemade lunch surprise, just for you! 🥪🎥✨ Made with love and a little video! 💕",
			"Lunchbox packed with care! 🥪💝 Plus a video showing how I made it! ✨",
		},
		MoodFun: {
			"Lunchbox surprise mode: ACTIVATED! 🥪🎉 Get ready for homemade goodness + video! ✨",
			"Warning: Extreme lunchbox awesomeness ahead! 🥪🎊 Homemade + video = perfection! 💕",
		},
		MoodHeartfelt: {
			"{recipient}, i wanted to make you something special. A homemade lunch, made with care, and a video so you can see the process 🥪💝 Love, {sender}",
			"Taking the time to prepare something for you brings me joy. Here's a lunch made with love, plus a little video 🥪💕",
		},
		MoodEvent: {
			"Celebrating with a lunch surprise! 🥪🎉 Homemade with love + making video! ✨",
			"Special occasion = special lunch! 🥪✨ Made with care and documented! 🎊",
		},
	},
	"trip-together": {
		MoodCute: {
			"A trip together, just you and me! ✈️💕 You choose the destination, I'll handle the rest! ✨",
			"Adventure time! ✈️💝 Pick where we're going and let's make memories! ✨",
		},
		MoodFun: {
			"Trip mode: ACTIVATED! ✈️🎉 Where are we going? You choose, I plan! ✨",
			"Adventure extravaganza! ✈️🎊 Pick the destination and let's make it legendary! 💕",
		},
		MoodHeartfelt: {
			"{recipient}, let's create memories together. You choose where we go, and I'll make sure everything is taken care of ✈️💝 Love, {sender}",
			"A trip together, just us. Because exploring the world with you is one of my greatest joys ✈️💕",
		},
		MoodEvent: {
			"Celebrating with a trip together! ✈️🎉 Where should we go? You choose! ✨",
			"Special occasion = special destination! ✈️✨ Let's plan the perfect trip! 🎊",
		},
	},
}
