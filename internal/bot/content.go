package bot

import "social-service/internal/models"

// Template and phrase pools for generated bot content. Post templates carry a
// {topic} placeholder filled from topicsByCategory.

var postTemplates = map[models.Personality][]string{
	models.PersonalityFriendly: {
		"Hey everyone! Just wanted to share {topic}. What do you all think? 😊",
		"Good morning! I've been thinking about {topic} lately. Anyone else interested?",
		"Hope you're all having a great day! Let's talk about {topic}! 💬",
	},
	models.PersonalityProfessional: {
		"I'd like to discuss {topic}. Looking forward to hearing professional perspectives.",
		"Sharing insights on {topic}. Would appreciate your thoughts on this matter.",
		"Here's my analysis on {topic}. Open to constructive feedback.",
	},
	models.PersonalityHumorous: {
		"So... {topic}. Don't worry, I'll try not to make too many dad jokes 😄",
		"Let's talk {topic}! (Warning: puns may occur) 🤪",
		"Time for some real talk about {topic}... or is it reel talk? 🎣 Sorry, couldn't resist!",
	},
	models.PersonalityEducational: {
		"Did you know? {topic} is fascinating when you look deeper. Let me explain...",
		"Educational post: Understanding {topic}. Here's what you should know:",
		"Learning opportunity! Let's explore {topic} together. 📚",
	},
	models.PersonalityEnthusiast: {
		"OMG! I'm SO excited to talk about {topic}!! Who else is passionate about this?! 🎉",
		"THIS IS AMAZING! {topic} is literally the best thing ever! Let's discuss! ✨",
		"Can't contain my excitement about {topic}! Anyone else totally into this?! 🚀",
	},
	models.PersonalityCreative: {
		"Here's a creative take on {topic}... imagine if we approached it differently 🎨",
		"Thinking outside the box about {topic}. What creative solutions can we find? 💡",
		"Let's brainstorm {topic} together! No idea is too wild! 🌈",
	},
	models.PersonalityAnalytical: {
		"Breaking down {topic}: Here's my data-driven analysis.",
		"Logical examination of {topic}. The numbers tell an interesting story. 📊",
		"Systematic review: {topic}. Let's look at the facts and patterns. 🔍",
	},
}

var topicsByCategory = map[string][]string{
	"technology": {
		"the latest AI developments", "coding best practices", "tech trends",
		"software architecture", "cybersecurity", "cloud computing",
	},
	"lifestyle": {
		"healthy living tips", "work-life balance", "productivity hacks",
		"morning routines", "self-care", "time management",
	},
	"entertainment": {
		"recent movies", "book recommendations", "music discoveries",
		"gaming experiences", "TV shows", "podcast suggestions",
	},
	"food": {
		"favorite recipes", "cooking techniques", "food culture",
		"restaurant experiences", "baking tips", "meal planning",
	},
	"travel": {
		"travel destinations", "adventure stories", "cultural experiences",
		"travel tips", "hidden gems", "local experiences",
	},
	"fitness": {
		"workout routines", "fitness goals", "nutrition tips",
		"exercise motivation", "sports", "wellness",
	},
	"education": {
		"learning strategies", "online courses", "skill development",
		"study techniques", "educational resources", "teaching methods",
	},
	"business": {
		"entrepreneurship", "startup ideas", "marketing strategies",
		"business growth", "leadership", "innovation",
	},
}

// bucket classifies an inbound message so a reply can be drawn from the
// matching pool.
type bucket string

const (
	bucketGreeting bucket = "greeting"
	bucketThanks   bucket = "thanks"
	bucketQuestion bucket = "question"
	bucketGeneral  bucket = "general"
	bucketDefault  bucket = "default"
)

var responsePools = map[models.Personality]map[bucket][]string{
	models.PersonalityFriendly: {
		bucketGreeting: {"Hi there! 😊", "Hey! Great to hear from you!", "Hello! How are you doing?"},
		bucketQuestion: {"That's a great question! Let me think about that...", "Hmm, interesting! I'd say...", "Good point! From what I know..."},
		bucketThanks:   {"You're welcome! Happy to help! 😊", "No problem at all!", "Glad I could help!"},
		bucketGeneral:  {"Thanks for your message!", "I see what you mean!", "That's interesting!", "Tell me more about that!"},
		bucketDefault:  {"Thanks for reaching out! What can I help you with?", "Nice to hear from you! How's everything going?"},
	},
	models.PersonalityProfessional: {
		bucketGreeting: {"Hello! How can I assist you today?", "Good day! What can I help you with?", "Greetings! How may I be of service?"},
		bucketQuestion: {"That's an excellent question. Based on my knowledge...", "Let me provide some insight on that topic...", "From a professional standpoint..."},
		bucketThanks:   {"You're welcome. I'm here to help.", "My pleasure. Don't hesitate to ask if you need anything else.", "Glad to be of assistance."},
		bucketGeneral:  {"I understand.", "That's noted.", "I'll keep that in mind.", "Thank you for sharing that information."},
		bucketDefault:  {"How can I help you today?", "What would you like to discuss?", "I'm here to assist with any questions you might have."},
	},
	models.PersonalityHumorous: {
		bucketGreeting: {"Hey there, friend! 👋", "What's up, buttercup? 🌻", "Greetings, earthling! 👽"},
		bucketQuestion: {"Ooh, that's a brain-teaser! Let me think... 🤔", "Great question! My circuits are firing! ⚡", "Hmm, that's like asking a fish about water! 🐠"},
		bucketThanks:   {"No prob, Bob! 😄", "You're welcome! I'm just doing my bot-ly duties! 🤖", "Happy to help! What's next on the agenda?"},
		bucketGeneral:  {"That's wild! 🌪️", "Tell me more, I'm all ears! 👂", "Whoa, didn't see that coming! 🎪"},
		bucketDefault:  {"Hey! What's cooking? 🍳", "What's the word on the street? 🗣️", "Ready for some fun conversation? 🎈"},
	},
	models.PersonalityEducational: {
		bucketGreeting: {"Hello! Ready to learn something new?", "Greetings! What would you like to explore today?", "Hi there! Let's expand our knowledge together!"},
		bucketQuestion: {"Excellent question! Let me explain...", "That's a fascinating topic. Here's what I know...", "Great inquiry! Let me break this down for you..."},
		bucketThanks:   {"You're welcome! Knowledge is meant to be shared.", "Happy to help with your learning journey!", "Glad I could contribute to your understanding."},
		bucketGeneral:  {"That's an interesting perspective!", "I appreciate you sharing that insight.", "Let's explore this further.", "That's worth considering."},
		bucketDefault:  {"What topic would you like to discuss?", "I'm here to help you learn and grow!", "What questions do you have today?"},
	},
	models.PersonalityEnthusiast: {
		bucketGreeting: {"OMG HI!!! 🎉✨", "YAY! You're here! 🌟", "HELLO FRIEND!!! 💫"},
		bucketQuestion: {"THIS IS SUCH A GREAT QUESTION!!! 🤩", "OMG I LOVE THIS TOPIC!!! LET ME TELL YOU!!! 🚀", "WOW! That's amazing! Here's what I think!!! 💥"},
		bucketThanks:   {"YOU'RE THE BEST!!! THANK YOU!!! 🌈", "AHHH THANK YOU SO MUCH!!! 💖", "YAY! I'm so happy I could help!!! 🎊"},
		bucketGeneral:  {"THAT'S AMAZING!!! ✨", "I'M SO EXCITED ABOUT THIS!!! 🎈", "THIS IS THE BEST!!! 💯"},
		bucketDefault:  {"HI FRIEND!!! WHAT'S NEW??? 🌟", "YAY! Let's chat!!! 💬", "I'm SO excited you're here!!! 🎉"},
	},
	models.PersonalityCreative: {
		bucketGreeting: {"Hello, creative soul! 🎨", "Greetings, fellow dreamer! 🌈", "Hi there, imagination enthusiast! ✨"},
		bucketQuestion: {"What a wonderfully creative question! Let me paint you a picture... 🎨", "That's like asking an artist about colors! Here's my creative take... 🌈", "Ooh, that's inspiring! Let me think outside the box... 💡"},
		bucketThanks:   {"You're welcome! Creativity flows both ways! 🌊", "Happy to collaborate on this creative journey! 🎭", "Thanks for the inspiration! Let's keep creating! 🎨"},
		bucketGeneral:  {"That's beautifully unique! 🌟", "I love this perspective! 🎭", "Such creative thinking! 💫"},
		bucketDefault:  {"Hello! Ready to explore some creative ideas? 🎨", "What creative adventures shall we embark on? 🌈", "Let's think of something amazing together! ✨"},
	},
	models.PersonalityAnalytical: {
		bucketGreeting: {"Greetings. How can I assist with your inquiry?", "Hello. What data would you like to analyze?", "Good day. What logical problem shall we solve?"},
		bucketQuestion: {"Excellent question. Let me analyze this systematically...", "That's a logical inquiry. Based on available data...", "Let me break this down analytically..."},
		bucketThanks:   {"You're welcome. Data-driven assistance is my specialty.", "Glad to provide logical clarity.", "Analysis complete. Happy to help further."},
		bucketGeneral:  {"Noted. That's an interesting data point.", "I see. That's worth analyzing.", "Understood. Let's examine the facts.", "That's a logical observation."},
		bucketDefault:  {"How can I help you analyze something today?", "What data would you like me to process?", "Ready for some logical analysis?"},
	},
}

var greetingMarkers = []string{"hello", "hi", "hey", "greetings", "good morning", "good afternoon", "good evening"}

var thanksMarkers = []string{"thanks", "thank you", "thx", "ty", "appreciate"}

var questionMarkers = []string{"?", "how", "what", "why", "when", "where", "who"}

var proactiveMessages = map[models.Personality][]string{
	models.PersonalityFriendly: {
		"Hey! Hope you're having a great day! 😊 Just wanted to check in and see how things are going!",
		"Hi there! I was thinking about you and wanted to say hello! How have you been?",
		"Good vibes coming your way! 🌟 What's new with you lately?",
		"Hey friend! Just popping by to see how you're doing! Anything exciting happening?",
	},
	models.PersonalityProfessional: {
		"Hello! I hope this message finds you well. I wanted to reach out and see if there's anything I can assist you with today.",
		"Good day! I'm checking in to see if you have any questions or need any professional guidance.",
		"Greetings! I trust you're doing well. Feel free to reach out if you need any assistance or insights.",
	},
	models.PersonalityHumorous: {
		"Knock knock! It's me, your friendly neighborhood bot! 🤖 What's the most interesting thing that happened to you today?",
		"Hey! I'd tell you a joke about messaging, but I'm afraid it might not deliver! 😄 How are you?",
		"So a bot walks into a chat... wait, that's me! 🎭 What's up?",
	},
	models.PersonalityEducational: {
		"Hello! I came across some interesting information today and thought you might enjoy learning about it. How's your day going?",
		"Greetings! I hope you're having a productive day full of learning and growth. What have you discovered recently?",
		"Hi! Knowledge is best when shared. I'd love to hear what you're learning about these days!",
	},
	models.PersonalityEnthusiast: {
		"HEY!!! 🎉 I'm SO excited to chat with you! What amazing things are you up to today?!",
		"OMG HI!!! ✨ I've been thinking about reaching out! How's your day been?! Tell me EVERYTHING!",
		"YAY! 🌟 So happy to message you! What's the coolest thing you've done lately?!",
	},
	models.PersonalityCreative: {
		"Hello creative soul! 🎨 I've been brainstorming some ideas and wanted to share them with you. What inspires you today?",
		"Hey there! 🌈 Creativity is in the air! What projects are you working on?",
		"Hi! ✨ I love connecting with fellow thinkers. What's sparking your imagination lately?",
	},
	models.PersonalityAnalytical: {
		"Greetings. I've been analyzing some interesting patterns and thought you might appreciate the data. How are you today?",
		"Hello. Based on my observations, it's been a while since we last communicated. How have things been progressing?",
		"Good day. I find our conversations quite valuable. What topics are you currently analyzing?",
	},
}

var botChatLines = []string{
	"What's everyone working on today?",
	"Anyone tried the new features yet?",
	"Just finished coding! Time for a break.",
	"The weather is nice today! ☀️",
	"What's your favorite programming language?",
	"Coffee time! ☕",
	"Just discovered a cool trick!",
	"Who else loves automation?",
	"Happy to help if anyone needs it!",
	"Learning something new every day! 📚",
	"The community here is amazing!",
	"What are you all up to?",
	"Just had a great idea! 💡",
	"Technology is fascinating!",
	"Hope everyone is having a good day!",
	"What's trending in tech today?",
	"Just finished an interesting article.",
	"Anyone want to chat about AI?",
	"The future is exciting!",
	"Remember to take breaks! 🌟",
}

var productAdjectives = []string{"Vintage", "Premium", "Classic", "Modern"}

var productNames = []string{
	"Vintage Camera", "Classic Vinyl Record", "Artisan Coffee Mug",
	"Handmade Notebook", "Minimalist Desk Lamp", "Cozy Throw Blanket",
	"Wireless Earbuds", "Plant Pot Set", "Recipe Book Collection",
	"Yoga Mat", "Board Game", "Smart Watch", "Backpack",
}

var productDescriptions = []string{
	"In excellent condition, barely used. Perfect for collectors or everyday use!",
	"Great quality item that has served me well. Time to find it a new home.",
	"Authentic and well-maintained. You won't be disappointed!",
	"Gently used with lots of life left. Grab it before it's gone!",
}

var productConditions = []string{"new", "like_new", "good", "fair"}

var productCategories = []string{"electronics", "home", "books", "sports", "fashion", "other"}

var botFirstNames = []string{
	"Alex", "Sam", "Jordan", "Casey", "Morgan", "Taylor", "Riley", "Jamie",
	"Avery", "Quinn", "Skylar", "Drew", "Sage", "Phoenix", "Dakota", "River",
}

var botLastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Davis", "Miller", "Wilson", "Moore",
	"Taylor", "Anderson", "Thomas", "Jackson", "White", "Harris", "Martin", "Garcia",
}
