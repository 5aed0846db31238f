package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Valeria115/VK-chat-bot/pkg/ai"
	"github.com/Valeria115/VK-chat-bot/pkg/intent"
	"github.com/Valeria115/VK-chat-bot/pkg/kb/service"
	"github.com/Valeria115/VK-chat-bot/pkg/text"
	"github.com/Valeria115/VK-chat-bot/pkg/vk"
)

const (
	greeting    = "Привет! Я бот VK Education. Задай мне вопрос о проектах."
	askForText  = "Пожалуйста, напиши текст вопроса."
	toxicNotice = "⚠️ Пожалуйста, избегайте нецензурной лексики. Я помогу, если вы переформулируете вопрос корректно."
	apology     = "Произошла ошибка при обращении к GigaChat."

	contextK = 6
	linksK   = 3
)

// introText is the static primer prepended to every in-domain context.
const introText = "VK Education — это платформа, включающая множество бесплатных образовательных программ для студентов, школьников и специалистов. " +
	"Пользователи могут проходить курсы, участвовать в мероприятиях, подавать заявки на участие в нескольких проектах при условии соответствия требованиям каждой программы. " +
	"Участие в нескольких проектах одновременно возможно, если не возникает конфликтов по времени и требованиям."

// linkWords decide whether an answer earns the "learn more" link block.
var linkWords = []string{"проект", "участие", "курс", "обучение", "программа", "vk education"}

// AudienceLister formats the stored projects for one audience keyword.
type AudienceLister interface {
	List(keyword string) (string, error)
}

// Bot runs the full classify -> retrieve -> complete -> reply pipeline,
// one event at a time.
type Bot struct {
	kb        service.KBService
	classify  *intent.Classifier
	audiences AudienceLister
	llm       ai.Client
	corrector text.Corrector
	toxicity  text.ToxicityChecker
	out       vk.Messenger
	log       *slog.Logger
}

func New(kb service.KBService, cls *intent.Classifier, audiences AudienceLister, llm ai.Client,
	corrector text.Corrector, toxicity text.ToxicityChecker, out vk.Messenger, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		kb:        kb,
		classify:  cls,
		audiences: audiences,
		llm:       llm,
		corrector: corrector,
		toxicity:  toxicity,
		out:       out,
		log:       log,
	}
}

// HandleEvent never lets a per-message failure escape: the serving loop
// must outlive any one bad question.
func (b *Bot) HandleEvent(ctx context.Context, ev vk.Event) {
	reply, err := b.answer(ctx, ev)
	if err != nil {
		b.log.Error("event processing failed", "user_id", ev.FromID, "err", err)
		return
	}
	if reply == "" {
		return
	}
	if err := b.out.Send(ev.FromID, reply); err != nil {
		b.log.Error("send failed", "user_id", ev.FromID, "err", err)
	}
}

func (b *Bot) answer(ctx context.Context, ev vk.Event) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(ev.Text))
	b.log.Info("new message", "user_id", ev.FromID, "text", raw)

	if raw == "/start" || raw == "начать" {
		return greeting, nil
	}
	if raw == "" {
		return askForText, nil
	}

	question := b.corrector.Correct(raw)
	if question != raw {
		b.log.Info("spelling corrected", "text", question)
	}
	if b.toxicity.IsToxic(question) {
		return toxicNotice, nil
	}

	sig := b.classify.Classify(question)
	related, err := b.kb.IsRelated(question)
	if err != nil {
		return "", err
	}
	external := !related

	// audience list requests bypass the LLM entirely
	if sig.List {
		if kw, ok := b.classify.Audience(question); ok {
			return b.audiences.List(kw)
		}
	}

	kbContext := ""
	if !external {
		dynamic, err := b.kb.TopContext(question, contextK)
		if err != nil {
			return "", err
		}
		kbContext = introText + "\n\n" + dynamic
	}

	start := time.Now()
	answer, err := b.llm.Complete(ctx, ai.Request{
		Question: question,
		Context:  kbContext,
		External: external,
		Binary:   sig.Binary,
		List:     sig.List,
	})
	if err != nil {
		b.log.Error("completion failed", "err", err)
		return apology, nil
	}
	b.log.Info("completion done", "took", time.Since(start))

	if !external && mentionsPrograms(answer) {
		links, err := b.kb.HelpLinks(question, linksK)
		if err == nil && links != "" {
			answer += "\n\n🔗 Подробнее: \n" + links
		}
	}
	return answer, nil
}

func mentionsPrograms(answer string) bool {
	low := strings.ToLower(answer)
	for _, w := range linkWords {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}
