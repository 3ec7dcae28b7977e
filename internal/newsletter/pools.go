package newsletter

// Palette is the set of accent colors; one is drawn per run
var Palette = []string{
	"#0099e5", "#ff4c4c", "#00a98f", "#be0027",
	"#371777", "#008374", "#037ef3", "#f85a40",
	"#0cb9c1", "#f48924", "#da1884", "#a51890",
}

// Emojis decorate the call-to-action button
var Emojis = []string{
	"🚀", "🎉", "🔥", "🌟", "🏆", "✨", "🌈", "💪", "👍", "👏",
	"😎", "😃", "😊", "🥳", "🤩", "🙌", "💫", "🎯", "🗣️", "📚",
	"📝", "🎓", "🌠", "🏅", "🎖️", "💎", "🥇", "🥈", "🥉", "💥",
	"💡", "🎈", "⚡", "💖", "👑", "🤠", "🤗", "😁", "😺", "🎁",
	"👊", "✌️", "🤟", "👌", "🙏", "💃", "🕺", "🎵", "🌍",
	"🌊", "🍀", "🐾", "🎖️", "🛡️", "🦾", "🧠", "💻", "📈", "📣",
	"🔔", "🎹", "🎸", "🎺", "🥁", "🌋", "⛰️", "🏔️", "🏝️", "🌅",
	"🌄", "🎆", "🌌", "🌃", "💐", "🌸", "🍎", "🍉", "🍇", "🍒",
	"🚴‍♂️", "🏄‍♀️", "🏇", "🚣‍♂️", "🏊‍♀️", "🤸‍♂️", "🤾‍♀️", "🥋", "🧗‍♂️", "🏹",
	"🛹", "🎢", "🎡", "🎠", "🛴", "🚂", "✈️", "🚁", "🚀", "🛸",
}

// Motivations are appended to most engagement messages
var Motivations = []string{
	"Keep up the great work!",
	"You're on a roll!",
	"Your dedication is inspiring!",
	"Stay motivated!",
	"Let's keep the momentum going!",
	"You're reaching new heights!",
	"Your commitment is exemplary!",
	"You're a language learning champion!",
	"Dive in and boost your learning journey!",
	"You're making fantastic progress!",
	"Keep the streak alive!",
	"Your hard work is paying off!",
	"Every day is a step closer to fluency!",
	"Amazing effort!",
	"Keep pushing forward!",
	"You're doing great!",
	"Keep shining!",
	"Way to go!",
	"Excellent job!",
	"You're unstoppable!",
	"Fantastic progress!",
	"Impressive dedication!",
	"Keep the fire burning!",
	"Nothing can stop you now!",
	"Keep it up!",
	"You're making us proud!",
	"Onwards and upwards!",
	"Great job!",
	"You're acing it!",
	"Bravo!",
	"You're a star!",
	"Success is yours!",
	"Keep conquering!",
	"Outstanding performance!",
	"Well done!",
	"Keep climbing!",
	"You're blazing trails!",
	"The sky's the limit!",
	"You're making waves!",
	"Keep rocking!",
	"You're a powerhouse!",
	"You're an inspiration!",
	"Keep aiming high!",
	"Your progress is amazing!",
	"Keep smashing those goals!",
	"You're doing a fantastic job!",
	"Keep the momentum!",
	"You're making a difference!",
	"Your efforts are commendable!",
	"Keep striving!",
	"You're a legend!",
	"The world is yours!",
	"You're going places!",
	"Your future is bright!",
	"Embrace the journey!",
	"Believe in yourself!",
	"You're unlocking greatness!",
	"Keep exploring!",
	"You're mastering it!",
	"Rise and shine!",
	"Seize the day!",
	"You're making history!",
	"Aim for the stars!",
	"Forge ahead!",
	"Unleash your potential!",
	"Victory is near!",
	"Shine on!",
	"Keep the flame alive!",
	"You're turning heads!",
	"Keep exceeding expectations!",
	"Your journey is remarkable!",
	"Keep elevating!",
	"You're a force to be reckoned with!",
	"March on!",
	"Your zeal is admirable!",
	"Keep up the pace!",
	"You're a trailblazer!",
	"Chart your own path!",
	"Keep dazzling!",
	"You're making leaps and bounds!",
	"Stay awesome!",
	"Keep setting records!",
	"Your passion is contagious!",
	"You're a game changer!",
	"Keep making strides!",
	"You're lighting the way!",
	"Soar high!",
	"You're doing wonders!",
	"Keep the spirit alive!",
	"You're creating ripples!",
	"Keep breaking barriers!",
	"Your enthusiasm is electrifying!",
	"Keep being amazing!",
	"You're a beacon of excellence!",
	"Keep making magic!",
	"You're the real MVP!",
	"Keep forging ahead!",
	"You're the architect of your success!",
	"Keep building greatness!",
}
