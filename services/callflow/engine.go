package callflow

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	callrecordRepo "movecall/database/repository/callrecord"
	"movecall/models"
	bookingsvc "movecall/services/booking"
	"movecall/services/distance"
	"movecall/services/extractor"
	"movecall/services/quote"

	"go.uber.org/zap"
)

// EventKind classifies an inbound telephony event.
type EventKind int

const (
	EventStart EventKind = iota // call answered
	EventInput                  // caller utterance or keypress for the current stage
	EventEnd                    // caller hung up or carrier ended the call
)

// Event is one inbound caller interaction.
type Event struct {
	Kind   EventKind
	CallID string
	From   string // caller's phone number, only meaningful on EventStart
	Input  string // transcribed speech
	Digits string // DTMF keypresses
}

// Action is the engine's deterministic response to one event: prompts to
// speak, whether to gather the next input, and how the call ends if it does.
// The caller always gets a next step.
type Action struct {
	Say        []string
	Gather     bool
	TransferTo string
	EndCall    bool

	// outcome defers session finalization until the turn is recorded.
	outcome    string
	bookingRef string
}

// DistanceLookup resolves the route between two addresses.
type DistanceLookup interface {
	Lookup(ctx context.Context, pickup, delivery string) (distance.Result, error)
}

// SlotFinder reports both windows' availability for a date.
type SlotFinder interface {
	AvailableSlots(ctx context.Context, date string) ([]models.SlotStatus, error)
}

// BookingCreator turns a completed session into a durable booking.
type BookingCreator interface {
	CreateBooking(ctx context.Context, s *models.CallSession) (*models.Booking, error)
}

// QuoteMailer emails a quote to a caller who declined to book on the spot.
type QuoteMailer interface {
	QuoteEmail(ctx context.Context, recipient models.Customer, q *models.QuoteBreakdown, route *models.Route)
}

// LinkTexter texts the online booking link to a caller.
type LinkTexter interface {
	SendSMS(to, body string) error
}

// Config tunes the engine's retry policy and call routing.
type Config struct {
	TransferNumber  string
	BookingLinkURL  string
	StageRetries    int // re-prompts allowed per stage before transfer
	ExtractFailures int // extraction failures allowed per call before transfer
}

// Engine is the stage transition engine. One HandleTurn call per inbound
// event; the session is mutated only within that call.
type Engine struct {
	sessions  *SessionManager
	extractor *extractor.Extractor
	distance  DistanceLookup
	slots     SlotFinder
	booker    BookingCreator
	mailer    QuoteMailer
	sms       LinkTexter
	records   callrecordRepo.CallRecordRepository
	cfg       Config
	logger    *zap.Logger
}

// NewEngine wires the engine. mailer, sms, and records may be nil; the
// corresponding actions degrade gracefully.
func NewEngine(sessions *SessionManager, ex *extractor.Extractor, dist DistanceLookup, slots SlotFinder, booker BookingCreator, mailer QuoteMailer, sms LinkTexter, records callrecordRepo.CallRecordRepository, cfg Config, logger *zap.Logger) *Engine {
	if cfg.StageRetries <= 0 {
		cfg.StageRetries = 2
	}
	if cfg.ExtractFailures <= 0 {
		cfg.ExtractFailures = 3
	}
	return &Engine{
		sessions:  sessions,
		extractor: ex,
		distance:  dist,
		slots:     slots,
		booker:    booker,
		mailer:    mailer,
		sms:       sms,
		records:   records,
		cfg:       cfg,
		logger:    logger,
	}
}

// HandleTurn processes one inbound event and produces the outbound action.
func (e *Engine) HandleTurn(ctx context.Context, ev Event) Action {
	switch ev.Kind {
	case EventStart:
		return e.startCall(ev)
	case EventEnd:
		e.abandon(ctx, ev.CallID)
		return Action{}
	}

	s, ok := e.sessions.Get(ev.CallID)
	if !ok {
		e.logger.Warn("input for unknown call session", zap.String("callId", ev.CallID))
		return Action{Say: []string{promptLostCall}, TransferTo: e.cfg.TransferNumber}
	}
	return e.processInput(ctx, s, ev)
}

// OnSessionExpired records an idle-timeout session as abandoned. Wired as the
// session janitor's callback.
func (e *Engine) OnSessionExpired(s *models.CallSession) {
	e.writeRecord(context.Background(), s, models.OutcomeAbandoned, "")
}

func (e *Engine) startCall(ev Event) Action {
	s := e.sessions.Create(ev.CallID, ev.From)
	act := Action{Say: []string{promptGreeting, promptMainMenu}, Gather: true}
	e.record(s, StageGreeting, StageMainMenu, ev, extractor.Result{}, act)
	s.Stage = StageMainMenu
	e.logger.Info("call started", zap.String("callId", ev.CallID), zap.String("from", ev.From))
	return act
}

func (e *Engine) processInput(ctx context.Context, s *models.CallSession, ev Event) Action {
	before := s.Stage
	input := ev.Digits
	if input == "" {
		input = ev.Input
	}

	var act Action
	var res extractor.Result
	spec, ok := e.specFor(s)
	if ok {
		res = e.extractor.Extract(ctx, input, spec)
		if res.Failed() {
			act = e.retryStage(ctx, s)
		} else {
			act = e.applyTransition(ctx, s, res.Value)
		}
	} else {
		e.logger.Error("input received at non-gathering stage",
			zap.String("callId", s.CallID), zap.String("stage", s.Stage))
		act = e.transfer(ctx, s)
	}

	e.record(s, before, s.Stage, ev, res, act)
	if act.outcome != "" {
		e.finish(ctx, s, act.outcome, act.bookingRef)
	}
	return act
}

// specFor returns the extraction spec for the session's current stage. The
// booking-slot spec depends on which windows were offered.
func (e *Engine) specFor(s *models.CallSession) (extractor.FieldSpec, bool) {
	if s.Stage == StageBookingSlot {
		return slotSpec(offeredSlots(s)), true
	}
	def, ok := flow[s.Stage]
	if !ok || def.Spec == nil {
		return extractor.FieldSpec{}, false
	}
	return *def.Spec, true
}

// applyTransition commits the extracted value and moves the protocol forward,
// running any auto stages (distance, quote, booking write) on the way.
func (e *Engine) applyTransition(ctx context.Context, s *models.CallSession, value string) Action {
	switch s.Stage {
	case StageMainMenu:
		if value == menuEscape {
			return e.handleEscape(ctx, s)
		}
	case StageBookingDate:
		return e.handleBookingDate(ctx, s, value)
	case StageBookingSlot:
		return e.handleBookingSlot(ctx, s, value)
	case StageEmailQuote:
		return e.handleEmailQuote(ctx, s, value)
	}

	def := flow[s.Stage]
	if def.Field != "" {
		s.SetField(def.Field, value)
	}
	return e.enter(ctx, s, def.Next(s, value), nil)
}

// enter moves the session to the next stage, running auto stages until the
// protocol needs caller input again or the call ends.
func (e *Engine) enter(ctx context.Context, s *models.CallSession, next string, say []string) Action {
	for {
		switch next {
		case StageCalculateDistance:
			s.Stage = next
			say = append(say, promptCrunching)
			e.runDistance(ctx, s)
			next = StageFinalizeQuote

		case StageFinalizeQuote:
			s.Stage = next
			e.buildQuote(s)
			say = append(say, quoteAnnouncement(s.Quote))
			s.Stage = StageDecision
			return Action{Say: say, Gather: true}

		case StageBookingCreate:
			s.Stage = next
			return e.createBooking(ctx, s, say)

		case StageSendBookingLink:
			s.Stage = next
			return e.sendBookingLink(ctx, s, say)

		case StageTransfer:
			return e.transferWithSay(ctx, s, say)

		default:
			s.Stage = next
			prompt, ok := stagePrompts[next]
			if !ok {
				e.logger.Error("no prompt for stage", zap.String("stage", next))
				return e.transferWithSay(ctx, s, say)
			}
			return Action{Say: append(say, prompt), Gather: true}
		}
	}
}

// handleEscape implements the hidden main-menu escape digit: the first press
// is deflected into the quote flow, the second transfers.
func (e *Engine) handleEscape(ctx context.Context, s *models.CallSession) Action {
	if s.BumpAttempt("escape") > 1 {
		return e.transfer(ctx, s)
	}
	// Re-entering the quote flow invalidates whatever was priced before.
	s.ClearQuote()
	return e.enter(ctx, s, StageServiceType,
		[]string{"I can usually get you an answer faster than hold music, so let's try a quick quote first."})
}

// retryStage re-prompts the current stage within the retry budget, then
// transfers. Ambiguous input never strands the caller.
func (e *Engine) retryStage(ctx context.Context, s *models.CallSession) Action {
	perStage := s.BumpAttempt("stage:" + s.Stage)
	total := s.BumpAttempt("extract-failures")
	if perStage > e.cfg.StageRetries || total > e.cfg.ExtractFailures {
		e.logger.Info("retry budget exhausted",
			zap.String("callId", s.CallID), zap.String("stage", s.Stage),
			zap.Int("stageAttempts", perStage), zap.Int("totalFailures", total))
		return e.transfer(ctx, s)
	}
	prompt := stagePrompts[s.Stage]
	if s.Stage == StageBookingSlot {
		prompt = slotChoicePrompt(s.Field(models.FieldBookingDate), offeredSlots(s))
	}
	return Action{Say: []string{promptClarify, prompt}, Gather: true}
}

// runDistance resolves the route and stores it on the session. The lookup
// itself falls back to an estimate rather than failing, so this never blocks
// the turn.
func (e *Engine) runDistance(ctx context.Context, s *models.CallSession) {
	res, err := e.distance.Lookup(ctx, s.Field(models.FieldPickupAddress), s.Field(models.FieldDeliveryAddress))
	if err != nil {
		// Lookup's own fallback should prevent this; keep a conservative
		// local estimate as the last line.
		e.logger.Error("distance lookup failed outright", zap.String("callId", s.CallID), zap.Error(err))
		res = distance.Result{Miles: 18, DriveTimeMinute: 30, Estimated: true}
	}
	s.SetField(models.FieldDistanceMiles, strconv.FormatFloat(res.Miles, 'f', 1, 64))
	s.SetField(models.FieldDriveTimeMinutes, strconv.Itoa(res.DriveTimeMinute))
}

// buildQuote derives crew size and hours, prices the job, and pins the quote
// on the session.
func (e *Engine) buildQuote(s *models.CallSession) {
	category := models.ServiceCategory(s.Field(models.FieldServiceType))
	dist, _ := strconv.ParseFloat(s.Field(models.FieldDistanceMiles), 64)
	pickupBeds, _ := strconv.Atoi(s.Field(models.FieldPickupBedrooms))
	deliveryBeds, _ := strconv.Atoi(s.Field(models.FieldDeliveryBedrooms))

	crew := quote.CrewSizeFor(pickupBeds, deliveryBeds)
	hours := quote.HoursFor(category, dist)
	breakdown := quote.Calculate(category, dist, crew, hours)
	s.Quote = &breakdown

	e.logger.Info("quote computed",
		zap.String("callId", s.CallID), zap.String("stage", s.Stage),
		zap.String("category", string(category)),
		zap.Float64("miles", dist), zap.Int("crew", crew), zap.Int("hours", hours),
		zap.Float64("total", breakdown.Total))
}

// handleBookingDate validates the requested date against the booking horizon
// and offers the open windows.
func (e *Engine) handleBookingDate(ctx context.Context, s *models.CallSession, value string) Action {
	date, ok := withinHorizon(value, time.Now())
	if !ok {
		if s.BumpAttempt("stage:"+StageBookingDate) > e.cfg.StageRetries {
			return e.transfer(ctx, s)
		}
		return Action{Say: []string{promptDateRange}, Gather: true}
	}

	statuses, err := e.slots.AvailableSlots(ctx, date)
	if err != nil {
		e.logger.Error("availability check failed", zap.String("callId", s.CallID), zap.Error(err))
		return e.transfer(ctx, s)
	}
	var offered []models.Slot
	for _, st := range statuses {
		if st.Available {
			offered = append(offered, st.Slot)
		}
	}
	// Both windows gone means a human has to hunt for alternatives; the
	// script only offers the two fixed slots.
	if len(offered) == 0 {
		e.logger.Info("date fully booked, transferring",
			zap.String("callId", s.CallID), zap.String("date", date))
		return e.transferWithSay(ctx, s, []string{promptFullyBooked})
	}

	s.SetField(models.FieldBookingDate, date)
	s.SetField(models.FieldOfferedSlots, joinSlots(offered))
	s.Stage = StageBookingSlot
	return Action{Say: []string{slotChoicePrompt(date, offered)}, Gather: true}
}

// handleBookingSlot resolves the caller's window choice and runs the booking
// write. Declining a single offered window restarts date selection.
func (e *Engine) handleBookingSlot(ctx context.Context, s *models.CallSession, value string) Action {
	offered := offeredSlots(s)

	var chosen models.Slot
	if len(offered) == 1 {
		if value != "yes" {
			s.Stage = StageBookingDate
			return Action{Say: []string{"No problem.", promptBookingDate}, Gather: true}
		}
		chosen = offered[0]
	} else {
		chosen = models.Slot(value)
	}

	if !slotOffered(chosen, offered) {
		if s.BumpAttempt("stage:"+StageBookingSlot) > e.cfg.StageRetries {
			return e.transfer(ctx, s)
		}
		return Action{Say: []string{promptClarify, slotChoicePrompt(s.Field(models.FieldBookingDate), offered)}, Gather: true}
	}

	s.SetField(models.FieldBookingSlot, string(chosen))
	return e.enter(ctx, s, StageBookingCreate, nil)
}

// createBooking runs the coordinator and maps its failures to the scripted
// recoveries: a lost slot restarts date selection, anything else transfers.
func (e *Engine) createBooking(ctx context.Context, s *models.CallSession, say []string) Action {
	b, err := e.booker.CreateBooking(ctx, s)
	if err == nil {
		return Action{
			Say:        append(say, bookingConfirmation(b)),
			EndCall:    true,
			outcome:    models.OutcomeBooked,
			bookingRef: b.BookingID,
		}
	}
	if errors.Is(err, bookingsvc.ErrSlotNoLongerAvailable) {
		s.Stage = StageBookingDate
		s.SetField(models.FieldOfferedSlots, "")
		return Action{Say: append(say, promptSlotTaken), Gather: true}
	}
	e.logger.Error("booking failed", zap.String("callId", s.CallID), zap.Error(err))
	return e.transferWithSay(ctx, s, say)
}

// handleEmailQuote emails the breakdown and ends the call.
func (e *Engine) handleEmailQuote(ctx context.Context, s *models.CallSession, value string) Action {
	s.SetField(models.FieldCustomerEmail, value)
	e.sendQuoteEmail(ctx, s)
	return Action{Say: []string{promptQuoteSent, promptGoodbye}, EndCall: true, outcome: models.OutcomeQuoted}
}

func (e *Engine) sendQuoteEmail(ctx context.Context, s *models.CallSession) {
	if e.mailer == nil || s.Quote == nil {
		return
	}
	dist, _ := strconv.ParseFloat(s.Field(models.FieldDistanceMiles), 64)
	driveTime, _ := strconv.Atoi(s.Field(models.FieldDriveTimeMinutes))
	e.mailer.QuoteEmail(ctx,
		models.Customer{
			Name:  s.Field(models.FieldCustomerName),
			Phone: s.CallerContact,
			Email: s.Field(models.FieldCustomerEmail),
		},
		s.Quote,
		&models.Route{
			PickupAddress:    s.Field(models.FieldPickupAddress),
			DeliveryAddress:  s.Field(models.FieldDeliveryAddress),
			DistanceMiles:    dist,
			DriveTimeMinutes: driveTime,
		})
}

// sendBookingLink texts the online booking URL and ends the call.
func (e *Engine) sendBookingLink(ctx context.Context, s *models.CallSession, say []string) Action {
	if e.sms != nil && e.cfg.BookingLinkURL != "" {
		if err := e.sms.SendSMS(s.CallerContact, "Book your move online here: "+e.cfg.BookingLinkURL); err != nil {
			e.logger.Error("booking link SMS failed", zap.String("callId", s.CallID), zap.Error(err))
		}
	}
	return Action{Say: append(say, promptLinkSent), EndCall: true, outcome: models.OutcomeLinkSent}
}

func (e *Engine) transfer(ctx context.Context, s *models.CallSession) Action {
	return e.transferWithSay(ctx, s, nil)
}

func (e *Engine) transferWithSay(ctx context.Context, s *models.CallSession, say []string) Action {
	s.Stage = StageTransfer
	return Action{Say: append(say, promptTransfer), TransferTo: e.cfg.TransferNumber, outcome: models.OutcomeTransferred}
}

// abandon closes a session whose caller hung up mid-flow. Terminal stages
// already finished themselves.
func (e *Engine) abandon(ctx context.Context, callID string) {
	s, ok := e.sessions.Get(callID)
	if !ok {
		return
	}
	e.finish(ctx, s, models.OutcomeAbandoned, "")
}

// finish writes the durable call record and destroys the session.
func (e *Engine) finish(ctx context.Context, s *models.CallSession, outcome, bookingID string) {
	e.writeRecord(ctx, s, outcome, bookingID)
	e.sessions.End(s.CallID)
	e.logger.Info("call finished",
		zap.String("callId", s.CallID), zap.String("stage", s.Stage),
		zap.String("outcome", outcome), zap.Int("turns", len(s.History)))
}

func (e *Engine) writeRecord(ctx context.Context, s *models.CallSession, outcome, bookingID string) {
	if e.records == nil {
		return
	}
	rec := &models.CallRecord{
		CallID:        s.CallID,
		CallerContact: s.CallerContact,
		FinalStage:    s.Stage,
		Outcome:       outcome,
		BookingID:     bookingID,
		History:       s.History,
		StartedAt:     s.StartedAt,
		EndedAt:       time.Now(),
	}
	if err := e.records.Create(ctx, rec); err != nil {
		e.logger.Error("failed to write call record", zap.String("callId", s.CallID), zap.Error(err))
	}
}

// record appends the audited turn. History is append-only.
func (e *Engine) record(s *models.CallSession, before, after string, ev Event, res extractor.Result, act Action) {
	s.History = append(s.History, models.Turn{
		StageBefore: before,
		StageAfter:  after,
		Input:       ev.Input,
		Digits:      ev.Digits,
		Extracted:   res.Value,
		Degraded:    res.Outcome == extractor.OutcomeFallback,
		Prompt:      strings.Join(act.Say, " "),
		At:          time.Now(),
	})
}

// withinHorizon validates a YYYY-MM-DD date against the booking window
// (tomorrow through today+90) in the business timezone.
func withinHorizon(value string, now time.Time) (string, bool) {
	loc, err := time.LoadLocation(models.BusinessTimezone)
	if err != nil {
		return "", false
	}
	d, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return "", false
	}
	nowLocal := now.In(loc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)
	if !d.After(today) {
		return "", false
	}
	if d.After(today.AddDate(0, 0, models.BookingHorizonDays)) {
		return "", false
	}
	return d.Format("2006-01-02"), true
}

func offeredSlots(s *models.CallSession) []models.Slot {
	raw := s.Field(models.FieldOfferedSlots)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	slots := make([]models.Slot, 0, len(parts))
	for _, p := range parts {
		slots = append(slots, models.Slot(p))
	}
	return slots
}

func joinSlots(slots []models.Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

func slotOffered(slot models.Slot, offered []models.Slot) bool {
	for _, s := range offered {
		if s == slot {
			return true
		}
	}
	return false
}

// slotSpec builds the extraction spec for the slot answer: yes/no when only
// one window was offered, morning/afternoon otherwise.
func slotSpec(offered []models.Slot) extractor.FieldSpec {
	if len(offered) == 1 {
		return extractor.FieldSpec{Name: "bookingSlot", Type: extractor.TypeYesNo}
	}
	return extractor.FieldSpec{
		Name: "bookingSlot",
		Type: extractor.TypeChoice,
		Choices: []extractor.Choice{
			{Value: string(models.SlotMorning), Digit: "1", Keywords: []string{"morning", "early", "first"}},
			{Value: string(models.SlotAfternoon), Digit: "2", Keywords: []string{"afternoon", "later", "second"}},
		},
	}
}
