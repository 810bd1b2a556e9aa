package reply

// Template pools for the auto-reply lanes, keyed by photo presence.
// Sources are liquid documents rendered with the review context
// (rating, photos_count, sku). Reviewed for policy compliance: no
// promises of refunds or compensation.

// noTextPool answers 5★ reviews without text or photos.
var noTextPool = []string{
	"Здравствуйте! Благодарим за высокую оценку 🙏 Рады, что товар вам понравился!",
	"Добрый день! Спасибо за 5 звёзд ⭐ Мы ценим ваш выбор и будем рады видеть вас снова!",
	"Здравствуйте! Большое спасибо за отзыв ❤️ Если будут вопросы — всегда на связи!",
	"Спасибо за доверие! ⭐⭐⭐⭐⭐",
	"Приветствуем! 🎉 Спасибо за тёплый приём товара! Это лучшая награда для нас 💙",
	"Благодарим за оценку! Для нас важно, чтобы вы оставались довольны качеством 🌟",
	"Спасибо за 5 звёзд! Рады быть частью вашего выбора. Рекомендуйте нас друзьям 🤗",
}

// photoPool answers 5★ reviews carrying photos.
var photoPool = []string{
	"Здравствуйте! Спасибо за {% if photos_count > 1 %}ваши фотографии{% else %}ваше фото{% endif %} 📸 Они помогают другим покупателям с выбором!",
	"Благодарим за отзыв и фотографии! ❤️ Ваши снимки — лучшая рекомендация 🌟",
	"Спасибо за 5 звёзд и фото! 🙏 Рады видеть товар в ваших руках 📷",
	"Приветствуем! Спасибо за красивые фотографии 🎉 Они делают выбор проще для всех 💙",
	"Благодарим за высокую оценку и фото! 📸 Ваш опыт важен для нас и других покупателей ✨",
}

// Synchronous fallback templates for the AI lanes, keyed by rating and the
// negative-signal lexicon. Used when no external generator is configured.
const (
	fallbackFiveStarPhotos = "Здравствуйте! Благодарим за прекрасный отзыв и фотографии 📸 Рады, что товар оправдал ожидания! Ваши снимки помогут другим покупателям с выбором. Ждём вас снова! ⭐"
	fallbackFiveStar       = "Здравствуйте! Спасибо за высокую оценку и доверие 🙏 Мы рады, что товар вам понравился! Будем ждать вас снова ⭐"
	fallbackFourStar       = "Добрый день! Благодарим за отзыв и оценку 🌟 Рады, что покупка вам подошла! Если будут вопросы — всегда на связи. Ждём снова!"
	fallbackThreeStar      = "Здравствуйте! Спасибо за честный отзыв 🙏 Нам важно ваше мнение. Если есть конкретные пожелания по улучшению — напишите нам, постараемся сделать лучше!"
	fallbackApologetic     = "Здравствуйте! Приносим искренние извинения за неприятный опыт 😔 Это не соответствует нашим стандартам. Пожалуйста, напишите нам в личные сообщения — мы обязательно разберёмся и найдём решение. Спасибо за ваше терпение 🙏"
	fallbackNeutralContact = "Здравствуйте! Сожалеем, что товар не оправдал ожиданий 🙏 Пожалуйста, свяжитесь с нами — мы постараемся помочь: подскажем по применению или подберём альтернативу. Ваше мнение важно для нас!"
)

// negativeLexicon marks defect-related wording in 1-2★ reviews. Matched
// case-insensitively as substrings.
var negativeLexicon = []string{
	"брак",
	"плох",
	"не подош",
	"defect",
	"broken",
	"damaged",
}
