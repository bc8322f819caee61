package i18n

// Message keys.
const (
	KeyUnauthenticated     = "auth.unauthenticated"
	KeyTopEmpty            = "leaderboard.top.empty"
	KeyLeaderboardEmpty    = "leaderboard.empty"
	KeyRankingYou          = "ranking.you"
	KeyRankingPlayerPrefix = "ranking.player_prefix"
	KeyStatsEmpty          = "stats.empty"
	KeyNewRecord           = "game.new_record"
	KeyGameOver            = "game.over"
	KeyStoreUnavailable    = "store.unavailable"
	KeyRateLimited         = "rate.limited"
)

// Identity provider messages, keyed by the provider's English text.
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgUserExists         = "User already registered"
	MsgWeakPassword       = "Password should be at least 6 characters"
	MsgInvalidEmail       = "Invalid email"
	MsgEmailNotConfirmed  = "Email not confirmed"
)

var authMessagesPTBR = map[string]string{
	MsgInvalidCredentials: "Email ou senha incorretos.",
	MsgUserExists:         "Este email já está cadastrado.",
	MsgWeakPassword:       "A senha deve ter pelo menos 6 caracteres.",
	MsgInvalidEmail:       "Email inválido.",
	MsgEmailNotConfirmed:  "Email não confirmado. Verifique sua caixa de entrada.",
}

var messagesPTBR = map[string]string{
	KeyUnauthenticated:     "Usuário não autenticado",
	KeyTopEmpty:            "Ninguém no ranking ainda. Seja o primeiro!",
	KeyLeaderboardEmpty:    "Nenhum score registrado ainda. Seja o primeiro a jogar!",
	KeyRankingYou:          "Você",
	KeyRankingPlayerPrefix: "Jogador ",
	KeyStatsEmpty:          "Você ainda não jogou.",
	KeyNewRecord:           "Novo recorde: %d pontos!",
	KeyGameOver:            "Fim de jogo! Pontuação: %d",
	KeyStoreUnavailable:    "Serviço temporariamente indisponível. Tente novamente.",
	KeyRateLimited:         "Muitas requisições. Aguarde um momento.",
}

var messagesEN = map[string]string{
	KeyUnauthenticated:     "User not authenticated",
	KeyTopEmpty:            "Nobody on the leaderboard yet. Be the first!",
	KeyLeaderboardEmpty:    "No scores recorded yet. Be the first to play!",
	KeyRankingYou:          "You",
	KeyRankingPlayerPrefix: "Player ",
	KeyStatsEmpty:          "You have not played yet.",
	KeyNewRecord:           "New record: %d points!",
	KeyGameOver:            "Game over! Score: %d",
	KeyStoreUnavailable:    "Service temporarily unavailable. Please try again.",
	KeyRateLimited:         "Too many requests. Please wait a moment.",
}
