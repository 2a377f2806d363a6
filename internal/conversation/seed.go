package conversation

// Seed returns the fixed set of conversations the store starts with.
// Every call returns fresh slices so stores never share backing arrays.
func Seed() []Conversation {
	return []Conversation{
		{
			ID:                 "anna",
			DisplayName:        "Анна Смирнова",
			AvatarGlyph:        "👩",
			IsOnline:           true,
			LastMessagePreview: "Привет! Как дела?",
			LastActivityTime:   "14:32",
			UnreadCount:        3,
			Messages: []Message{
				{ID: 1, Text: "Привет!", TimeLabel: "14:30", Sender: SenderPeer, Kind: KindText},
				{ID: 2, Text: "Привет, Анна!", TimeLabel: "14:31", Sender: SenderSelf, Kind: KindText},
				{ID: 3, Text: "Привет! Как дела?", TimeLabel: "14:32", Sender: SenderPeer, Kind: KindText},
			},
		},
		{
			ID:                 "dev-team",
			DisplayName:        "Команда разработки",
			AvatarGlyph:        "💻",
			LastMessagePreview: "Готово к релизу",
			LastActivityTime:   "13:15",
			Messages: []Message{
				{ID: 1, Text: "Сборка прошла?", TimeLabel: "13:10", Sender: SenderSelf, Kind: KindText},
				{ID: 2, Text: "Готово к релизу", TimeLabel: "13:15", Sender: SenderPeer, Kind: KindText},
			},
		},
		{
			ID:                 "maxim",
			DisplayName:        "Максим Иванов",
			AvatarGlyph:        "👨",
			IsOnline:           true,
			LastMessagePreview: "Отправил файлы",
			LastActivityTime:   "12:04",
			UnreadCount:        1,
		},
		{
			ID:                 "family",
			DisplayName:        "Семья",
			AvatarGlyph:        "👨‍👩‍👧‍👦",
			LastMessagePreview: "Встречаемся в 18:00",
			LastActivityTime:   "Вчера",
		},
		{
			ID:                 "olga",
			DisplayName:        "Ольга Петрова",
			AvatarGlyph:        "👩‍💼",
			IsOnline:           true,
			LastMessagePreview: "Спасибо за помощь!",
			LastActivityTime:   "Вчера",
		},
	}
}
