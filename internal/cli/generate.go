package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/guestify/mediakit-ai/internal/aistore"
	"github.com/guestify/mediakit-ai/internal/config"
	"github.com/guestify/mediakit-ai/internal/content"
	"github.com/guestify/mediakit-ai/internal/core"
	"github.com/guestify/mediakit-ai/internal/tools"
	"github.com/guestify/mediakit-ai/internal/utils"
)

// systemClipboard is replaced in tests.
var systemClipboard core.Clipboard = core.ClipboardFunc(clipboard.WriteAll)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	RESTURL     string
	Nonce       string
	PublicNonce string
	Context     string
	Params      []string
	Slots       []string
	ProfileFile string
	Copy        bool
}

type generateInput struct {
	params  map[string]string
	slots   []core.SlotName
	authCtx core.AuthContext
	profile map[string]any
}

type generatorFunc func(ctx context.Context, deps core.Deps, in generateInput) (any, error)

var generators = map[string]generatorFunc{
	core.TypeBiography:        generateBiography,
	core.TypeGuestIntro:       generateGuestIntro,
	core.TypeTopics:           generateTopics,
	core.TypeQuestions:        generateQuestions,
	core.TypeTagline:          generateTagline,
	core.TypeOffers:           generateOffers,
	core.TypeConversionOffers: generateConversionOffers,
	core.TypeAuthorityHook:    generateAuthorityHooks,
	core.TypeImpactIntro:      generateImpactIntros,
}

// GeneratorTypes lists the content types the generate command accepts.
func GeneratorTypes() []string {
	out := make([]string, 0, len(generators))
	for k := range generators {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <type>",
		Short: "Generate content through a media kit backend",
		Long: `Generate one kind of media kit content by calling the ai/generate endpoint.

Types: ` + strings.Join(GeneratorTypes(), ", ") + `

Form fields are passed as --param key=value. Biographies and guest intros can fill
several length slots at once with --slot short --slot medium --slot long (or --slot all).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.RESTURL, "rest-url", "", "REST base of the backend, defaults to GMKB_REST_URL")
	cmd.Flags().StringVar(&opts.Nonce, "nonce", "", "builder nonce sent as X-WP-Nonce, defaults to GMKB_REST_NONCE")
	cmd.Flags().StringVar(&opts.PublicNonce, "public-nonce", "", "public nonce sent in the body, defaults to GMKB_PUBLIC_NONCE")
	cmd.Flags().StringVar(&opts.Context, "context", "", "auth context (builder|public), defaults to the environment")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "form field as key=value (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Slots, "slot", nil, "length slot for biography and guest_intro (short|medium|long|all)")
	cmd.Flags().StringVar(&opts.ProfileFile, "profile", "", "JSON file with saved profile fields to preload")
	cmd.Flags().BoolVar(&opts.Copy, "copy", false, "copy the first result to the clipboard")

	return cmd
}

func runGenerate(cmd *cobra.Command, rootOpts *RootOptions, opts *GenerateOptions, typ string) error {
	gen, ok := generators[typ]
	if !ok {
		return commandError("unknown type %q: must be one of %v", typ, GeneratorTypes())
	}

	cfg, _ := config.Load()
	level := rootOpts.LogLevel
	if level == "" {
		level = cfg.LogLevel
	}
	log, err := utils.NewLogger(level)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to create logger", Err: err}
	}
	defer log.Sync()

	registry, err := tools.Load(cfg.ToolsFile)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to load tools", Err: err}
	}

	in, err := buildInput(opts)
	if err != nil {
		return err
	}

	session := aistore.New()
	if in.profile != nil {
		session.LoadFromProfileData(in.profile)
	}

	deps := core.Deps{
		Env:       clientEnvironment(opts),
		Store:     session,
		Tools:     registry,
		Clipboard: systemClipboard,
		Logger:    log,
	}

	result, err := gen(cmd.Context(), deps, in)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return &ExitError{Code: ExitFailure, Message: "generation failed", Err: err}
	}

	if err := writeResult(cmd.OutOrStdout(), rootOpts.Format, result); err != nil {
		return err
	}

	if opts.Copy {
		if text := firstText(result); text != "" {
			if err := systemClipboard.WriteAll(text); err != nil {
				log.Warn("failed to copy to clipboard", zap.Error(err))
			}
		}
	}
	return nil
}

func clientEnvironment(opts *GenerateOptions) config.Environment {
	env := config.LoadEnvironment()
	if opts.RESTURL != "" {
		env.RESTURL = config.NormalizeRESTURL(opts.RESTURL)
	}
	if opts.Nonce != "" {
		env.Nonce = opts.Nonce
		env.LoggedIn = true
	}
	if opts.PublicNonce != "" {
		env.PublicNonce = opts.PublicNonce
	}
	return env
}

func buildInput(opts *GenerateOptions) (generateInput, error) {
	in := generateInput{params: make(map[string]string, len(opts.Params))}

	for _, p := range opts.Params {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return in, commandError("invalid --param %q: want key=value", p)
		}
		in.params[key] = strings.TrimSpace(value)
	}

	switch core.AuthContext(opts.Context) {
	case "", core.ContextBuilder, core.ContextPublic:
		in.authCtx = core.AuthContext(opts.Context)
	default:
		return in, commandError("invalid --context %q: must be builder or public", opts.Context)
	}

	for _, s := range opts.Slots {
		if s == "all" {
			in.slots = core.SlotNames
			break
		}
		slot := core.SlotName(strings.TrimSpace(s))
		if _, ok := core.VariationCounts[slot]; !ok {
			return in, commandError("invalid --slot %q: must be short, medium, long or all", s)
		}
		in.slots = append(in.slots, slot)
	}

	if opts.ProfileFile != "" {
		data, err := os.ReadFile(opts.ProfileFile)
		if err != nil {
			return in, &ExitError{Code: ExitCommandError, Message: "failed to read profile", Err: err}
		}
		if err := json.Unmarshal(data, &in.profile); err != nil {
			return in, &ExitError{Code: ExitCommandError, Message: "profile is not a JSON object", Err: err}
		}
	}
	return in, nil
}

// intParam reads a numeric form field; missing means zero.
func (in generateInput) intParam(key string) (int, error) {
	raw, ok := in.params[key]
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, commandError("invalid %s %q: want a number", key, raw)
	}
	return n, nil
}

// list splits a comma separated form field.
func (in generateInput) list(key string) []string {
	if in.params[key] == "" {
		return nil
	}
	items, _ := aistore.ParseList(in.params[key])
	return items
}

// extras returns the params not consumed by a form, passed through as overrides.
func (in generateInput) extras(consumed ...string) map[string]any {
	out := make(map[string]any)
	for k, v := range in.params {
		if !slices.Contains(consumed, k) {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// generateSlots fills each slot concurrently. The first failure cancels the others.
func generateSlots(ctx context.Context, slots []core.SlotName, fill func(ctx context.Context, slot core.SlotName) ([]content.Variation, error)) (map[core.SlotName][]content.Variation, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	out := make(map[core.SlotName][]content.Variation, len(slots))
	for _, slot := range slots {
		g.Go(func() error {
			vs, err := fill(ctx, slot)
			if err != nil {
				return fmt.Errorf("%s slot: %w", slot, err)
			}
			mu.Lock()
			out[slot] = vs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

var biographyFields = []string{"name", "title", "organization", "tone", "pov", "existingBio", "notes"}

func generateBiography(ctx context.Context, deps core.Deps, in generateInput) (any, error) {
	bio := core.NewBiography(deps)
	bio.SetForm(core.BiographyForm{
		Name:         in.params["name"],
		Title:        in.params["title"],
		Organization: in.params["organization"],
		Tone:         in.params["tone"],
		POV:          in.params["pov"],
		ExistingBio:  in.params["existingBio"],
		Notes:        in.params["notes"],
	})
	slots := in.slots
	if len(slots) == 0 {
		slots = []core.SlotName{bio.ActiveSlot()}
	}
	overrides := in.extras(biographyFields...)
	return generateSlots(ctx, slots, func(ctx context.Context, slot core.SlotName) ([]content.Variation, error) {
		return bio.GenerateForSlot(ctx, slot, overrides)
	})
}

var guestIntroFields = []string{"guestName", "guestTitle", "episodeTitle", "topic", "tone", "hookStyle", "notes"}

func generateGuestIntro(ctx context.Context, deps core.Deps, in generateInput) (any, error) {
	intro := core.NewGuestIntro(deps)
	if in.profile != nil {
		intro.LoadFromProfileData(in.profile)
	}
	form := intro.Form()
	for key, dst := range map[string]*string{
		"guestName":    &form.GuestName,
		"guestTitle":   &form.GuestTitle,
		"episodeTitle": &form.EpisodeTitle,
		"topic":        &form.Topic,
		"tone":         &form.Tone,
		"hookStyle":    &form.HookStyle,
		"notes":        &form.Notes,
	} {
		if v, ok := in.params[key]; ok {
			*dst = v
		}
	}
	if err := intro.SetForm(form); err != nil {
		return nil, err
	}
	slots := in.slots
	if len(slots) == 0 {
		slots = []core.SlotName{intro.ActiveSlot()}
	}
	overrides := in.extras(guestIntroFields...)
	return generateSlots(ctx, slots, func(ctx context.Context, slot core.SlotName) ([]content.Variation, error) {
		return intro.GenerateForSlot(ctx, slot, overrides, in.authCtx)
	})
}

func generateTopics(ctx context.Context, deps core.Deps, in generateInput) (any, error) {
	count, err := in.intParam("count")
	if err != nil {
		return nil, err
	}
	return core.NewTopics(deps).Generate(ctx, core.TopicsRequest{Expertise: in.params["expertise"], Count: count}, in.authCtx)
}

func generateQuestions(ctx context.Context, deps core.Deps, in generateInput) (any, error) {
	count, err := in.intParam("count")
	if err != nil {
		return nil, err
	}
	return core.NewQuestions(deps).Generate(ctx, core.QuestionsRequest{Topics: in.list("topics"), Count: count}, in.authCtx)
}

var taglineFields = []string{"name", "industry", "uniqueFactor", "existingTaglines", "styleFocus", "tone", "intent", "count"}

func generateTagline(ctx context.Context, deps core.Deps, in generateInput) (any, error) {
	count, err := in.intParam("count")
	if err != nil {
		return nil, err
	}
	t := core.NewTagline(deps)
	if in.profile != nil {
		t.LoadFromProfile(in.profile)
	}
	form := t.Form()
	form.Name = in.params["name"]
	form.Industry = in.params["industry"]
	form.UniqueFactor = in.params["uniqueFactor"]
	form.ExistingTaglines = in.params["existingTaglines"]
	if v := in.params["styleFocus"]; v != "" {
		form.StyleFocus = v
	}
	if v := in.params["tone"]; v != "" {
		form.Tone = v
	}
	if v := in.params["intent"]; v != "" {
		form.Intent = v
	}
	if count > 0 {
		form.Count = count
	}
	if err := t.SetForm(form); err != nil {
		return nil, err
	}
	return t.Generate(ctx, in.extras(taglineFields...), in.authCtx)
}

func generateOffers(ctx context.Context, deps core.Deps, in generateInput) (any, error) {
	variations, err := in.intParam("variationCount")
	if err != nil {
		return nil, err
	}
	return core.NewOffers(deps).Generate(ctx, core.OffersRequest{
		Services:       in.params["services"],
		Audience:       in.params["audience"],
		PriceRange:     in.params["priceRange"],
		VariationCount: variations,
	}, in.authCtx)
}

func generateConversionOffers(ctx context.Context, deps core.Deps, in generateInput) (any, error) {
	count, err := in.intParam("count")
	if err != nil {
		return nil, err
	}
	return core.NewConversionOffers(deps).Generate(ctx, core.ConversionOffersRequest{
		OfferType: in.params["offerType"],
		Services:  in.params["services"],
		Count:     count,
	}, in.authCtx)
}

func generateAuthorityHooks(ctx context.Context, deps core.Deps, in generateInput) (any, error) {
	count, err := in.intParam("count")
	if err != nil {
		return nil, err
	}
	var hook aistore.AuthorityHook
	for _, field := range aistore.AuthorityHookFields {
		hook.Set(field, in.params[field])
	}
	return core.NewAuthorityHooks(deps).Generate(ctx, hook, count, in.authCtx)
}

func generateImpactIntros(ctx context.Context, deps core.Deps, in generateInput) (any, error) {
	count, err := in.intParam("count")
	if err != nil {
		return nil, err
	}
	return core.NewImpactIntros(deps).Generate(ctx, core.ImpactIntroRequest{
		Credentials:  in.list("credentials"),
		Achievements: in.list("achievements"),
		Where:        in.params["where"],
		Why:          in.params["why"],
		Count:        count,
	}, in.authCtx)
}
