package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/qrtag/internal/client/client"
	"github.com/dmitrijs2005/qrtag/internal/phone"
)

var getMultiline = GetMultiline
var getYesNo = GetYesNo

// ShowTag prints a tag the way a finder sees it, or its full details when
// the caller owns it.
func (a *App) ShowTag(ctx context.Context, code string) error {
	q, err := a.tagService.Get(ctx, code)
	if err != nil {
		return a.report(ctx, err)
	}

	if !q.IsActive() {
		printlnFn(fmt.Sprintf("Tag %s has not been activated yet.", q.Code))
		if a.isLoggedIn() {
			printlnFn(fmt.Sprintf("Use 'activate %s' to claim it.", q.Code))
		}
		return nil
	}
	a.printTag(q)
	return nil
}

// ListTags prints the tags owned by the logged-in user.
func (a *App) ListTags(ctx context.Context) error {
	list, err := a.tagService.List(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(list) == 0 {
		printlnFn("You have no tags yet")
		return nil
	}
	for _, q := range list {
		printlnFn(fmt.Sprintf("%-10s %-24s scans: %d", q.Code, q.ItemName, q.ScanCount))
	}
	return nil
}

// ActivateTag claims an unused tag and fills in its details.
func (a *App) ActivateTag(ctx context.Context, code string) error {
	var req client.ActivationRequest
	var err error

	if req.ItemName, err = a.promptRequired("Item name"); err != nil {
		return err
	}
	if req.ItemDescription, err = getSimpleText(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}
	if req.Category, err = getSimpleText(a.reader, "Category (optional)", a.out); err != nil {
		return err
	}

	var name, email string
	if u := a.authService.Current().User; u != nil {
		name, email = u.Name, u.Email
	}
	if req.OwnerName, err = a.promptDefault("Your name", name); err != nil {
		return err
	}
	if req.OwnerName == "" {
		if req.OwnerName, err = a.promptRequired("Your name"); err != nil {
			return err
		}
	}
	if req.OwnerPhone, err = a.promptPhone("Phone number", ""); err != nil {
		return err
	}
	if req.OwnerEmail, err = a.promptDefault("Contact email", email); err != nil {
		return err
	}
	if req.Message, err = getMultiline(a.reader, "Message for the finder (optional)", a.out); err != nil {
		return err
	}
	if req.ShowPhone, err = getYesNo(a.reader, "Show phone number to finders?", true, a.out); err != nil {
		return err
	}
	if req.ShowEmail, err = getYesNo(a.reader, "Show email to finders?", false, a.out); err != nil {
		return err
	}

	q, err := a.tagService.Activate(ctx, code, req)
	if err != nil {
		return a.report(ctx, err)
	}
	printlnFn(fmt.Sprintf("Tag %s activated.", q.Code))
	a.printTag(q)
	return nil
}

// UpdateTag edits an owned tag. Each prompt shows the current value; an
// empty answer keeps it.
func (a *App) UpdateTag(ctx context.Context, code string) error {
	cur, err := a.tagService.Get(ctx, code)
	if err != nil {
		return a.report(ctx, err)
	}

	var upd client.QRCodeUpdate
	fields := []struct {
		prompt string
		cur    string
		dst    **string
	}{
		{"Item name", cur.ItemName, &upd.ItemName},
		{"Description", cur.ItemDescription, &upd.ItemDescription},
		{"Category", cur.Category, &upd.Category},
		{"Your name", cur.OwnerName, &upd.OwnerName},
		{"Contact email", cur.OwnerEmail, &upd.OwnerEmail},
		{"Message for the finder", cur.Message, &upd.Message},
	}
	for _, f := range fields {
		v, err := a.promptDefault(f.prompt, f.cur)
		if err != nil {
			return err
		}
		if v != f.cur {
			*f.dst = &v
		}
	}

	p, err := a.promptPhone("Phone number", cur.OwnerPhone)
	if err != nil {
		return err
	}
	if p != cur.OwnerPhone {
		upd.OwnerPhone = &p
	}

	showPhone, err := getYesNo(a.reader, "Show phone number to finders?", cur.ShowPhone, a.out)
	if err != nil {
		return err
	}
	if showPhone != cur.ShowPhone {
		upd.ShowPhone = &showPhone
	}
	showEmail, err := getYesNo(a.reader, "Show email to finders?", cur.ShowEmail, a.out)
	if err != nil {
		return err
	}
	if showEmail != cur.ShowEmail {
		upd.ShowEmail = &showEmail
	}

	if upd.Empty() {
		printlnFn("Nothing to update")
		return nil
	}

	q, err := a.tagService.Update(ctx, code, upd)
	if err != nil {
		return a.report(ctx, err)
	}
	printlnFn(fmt.Sprintf("Tag %s updated.", q.Code))
	a.printTag(q)
	return nil
}

// DeleteTag releases an owned tag after confirmation.
func (a *App) DeleteTag(ctx context.Context, code string) error {
	ok, err := getYesNo(a.reader, fmt.Sprintf("Release tag %s? Its details will be removed.", code), false, a.out)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Cancelled")
		return nil
	}

	if err := a.tagService.Delete(ctx, code); err != nil {
		return a.report(ctx, err)
	}
	printlnFn(fmt.Sprintf("Tag %s deleted.", code))
	return nil
}

func (a *App) printTag(q *client.QRCode) {
	printlnFn("Code:       ", q.Code)
	printlnFn("Item:       ", q.ItemName)
	if q.ItemDescription != "" {
		printlnFn("Description:", q.ItemDescription)
	}
	if q.Category != "" {
		printlnFn("Category:   ", q.Category)
	}
	if q.OwnerName != "" {
		printlnFn("Owner:      ", q.OwnerName)
	}
	if q.OwnerPhone != "" {
		printlnFn("Phone:      ", phone.Format(a.config.DefaultCountry, q.OwnerPhone))
	}
	if q.OwnerEmail != "" {
		printlnFn("Email:      ", q.OwnerEmail)
	}
	if q.Message != "" {
		printlnFn("Message:    ", q.Message)
	}
	printlnFn("Scans:      ", strconv.Itoa(q.ScanCount))
	if q.ActivatedAt != nil {
		printlnFn("Activated:  ", q.ActivatedAt.Local().Format(time.DateOnly))
	}
}

func (a *App) promptRequired(prompt string) (string, error) {
	for {
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		printlnFn(prompt, "is required")
	}
}

func (a *App) promptDefault(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

// promptPhone reads a phone number and normalises it to E.164, asking again
// until the input is valid. A non-empty def is kept on empty input.
func (a *App) promptPhone(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, phone.Format(a.config.DefaultCountry, def))
	}
	for {
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return "", err
		}
		if v == "" && def != "" {
			return def, nil
		}
		e164, err := phone.E164(a.config.DefaultCountry, v)
		if err == nil {
			return e164, nil
		}
		printlnFn(err.Error())
	}
}
