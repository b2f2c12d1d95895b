// Package pipeline runs one delivery through the relay core: correlation
// checks, category detection, classification, fingerprinting, aggregate
// building, and provenance stamping. It is stateless and synchronous;
// every call recomputes everything from the delivery alone, so the server
// can run it concurrently without coordination.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lotwire-systems/lotwire-relay/common/fingerprint"
	"github.com/lotwire-systems/lotwire-relay/common/models"
	"github.com/lotwire-systems/lotwire-relay/common/provenance"
	"github.com/lotwire-systems/lotwire-relay/common/value"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/mapper"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/classify"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/taxonomy"
)

// classifyFn is replaceable in tests to exercise the degraded paths.
var classifyFn = classify.Classify

// Process resolves a delivery to exactly one of the three outcomes.
// Rejections are contract violations reported to the caller; anything
// unexpected, panics included, degrades instead of dropping the
// delivery.
func Process(d *models.Delivery) (result *models.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = degrade(d.Raw, fmt.Sprintf("panic: %v", r))
		}
	}()

	dealer, customer, verr := correlation(d.Raw)
	if verr != nil {
		return reject(verr)
	}

	category, payload, verr := categoryPayload(d.Raw)
	if verr != nil {
		return reject(verr)
	}

	cls, err := classifyFn(category, payload)
	if err != nil {
		var cverr *models.ValidationError
		if errors.As(err, &cverr) {
			return reject(cverr)
		}
		return degrade(d.Raw, fmt.Sprintf("classify: %v", err))
	}

	cat, _ := taxonomy.ByName(category)
	logicalFP := fingerprint.New(d.Raw, cat.Namespace, false)
	deliveryFP := fingerprint.New(d.Raw, cat.Namespace, true)
	primaryFP := logicalFP
	if cat.IncludeArrival {
		primaryFP = deliveryFP
	}

	aggregate, identity := mapper.Build(category, payload)
	// The shadow maps carry the same identity the merge store keys on,
	// so a redelivered logical event attributes to one entry there.
	at, by := provenance.Stamp(aggregate, d.ReceivedAt, primaryFP, identity)

	return &models.Result{
		Status: models.StatusClassified,
		Classified: &models.Classified{
			Category:            category,
			Tag:                 cls.Tag,
			DealerID:            dealer,
			CustomerID:          customer,
			Fingerprint:         primaryFP,
			LogicalFingerprint:  logicalFP,
			DeliveryFingerprint: deliveryFP,
			ReceivedAt:          d.ReceivedAt,
			Payload:             payload,
			Aggregate:           aggregate,
			LastReceivedAt:      at,
			LastReceivedBy:      by,
		},
	}
}

// correlation extracts the tenant and subject keys every delivery must
// carry at the top level.
func correlation(raw map[string]interface{}) (dealer, customer string, verr *models.ValidationError) {
	dealer, ok := value.String(raw, "dealer_id")
	if !ok {
		return "", "", &models.ValidationError{
			Code:    models.CodeMissingCorrelationKey,
			Field:   "dealer_id",
			Message: "delivery carries no dealer_id",
		}
	}
	customer, ok = value.String(raw, "customer_id")
	if !ok {
		return "", "", &models.ValidationError{
			Code:    models.CodeMissingCorrelationKey,
			Field:   "customer_id",
			Message: "delivery carries no customer_id",
		}
	}
	return dealer, customer, nil
}

// categoryPayload locates the single category sub-object of the
// delivery. Zero or several category keys make the shape unrecognizable.
func categoryPayload(raw map[string]interface{}) (string, map[string]interface{}, *models.ValidationError) {
	var found []string
	for _, name := range taxonomy.Names() {
		if _, present := raw[name]; present {
			found = append(found, name)
		}
	}

	switch len(found) {
	case 0:
		return "", nil, &models.ValidationError{
			Code:    models.CodeUnrecognizedShape,
			Message: "no recognized category sub-object in the delivery",
		}
	case 1:
	default:
		return "", nil, &models.ValidationError{
			Code:    models.CodeUnrecognizedShape,
			Message: fmt.Sprintf("more than one category sub-object present: %s", strings.Join(found, ", ")),
		}
	}

	name := found[0]
	payload, ok := value.Map(raw, name)
	if !ok {
		return "", nil, &models.ValidationError{
			Code:    models.CodeUnrecognizedShape,
			Field:   name,
			Message: fmt.Sprintf("%s is not a populated object", name),
		}
	}
	return name, payload, nil
}

func reject(verr *models.ValidationError) *models.Result {
	return &models.Result{Status: models.StatusRejected, Rejection: verr}
}

func degrade(raw map[string]interface{}, reason string) *models.Result {
	return &models.Result{
		Status: models.StatusDegraded,
		Degraded: &models.Degraded{
			Tag:    models.TagUnknown,
			Reason: reason,
			Raw:    raw,
		},
	}
}
