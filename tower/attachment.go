/*
attachment.go - Attachment resolution over the layer stack

PURPOSE:
  Computes where each layer's capacity begins to respond. The rule:
  a layer attaches at the sum of the limits of every layer with a
  strictly lower attachment. Quota-share co-participants occupy a
  single attachment level no matter how many of them there are -
  their limits stack against the rest of the tower once, as the
  group's declared combined capacity, never against each other.

ALGORITHM:
  Walk the layers in stored (ascending) order with a running floor.
  A solo layer is placed at the floor and advances it by its own
  limit. A quota-share member is placed at the floor without
  advancing it; the floor advances once, by the declared combined
  capacity, after the last member of the contiguous group.

GUARANTEES:
  - Pure: input untouched, fresh slice returned
  - Idempotent: recalculating a recalculated tower is a no-op
  - A non-positive limit anywhere rejects the whole tower; no
    partial result is ever returned
  - Layer order is never changed; callers must already have the
    stack in ascending intended-attachment order
*/
package tower

// Recalculate derives every layer's attachment from the stack and
// writes it into the returned copy's Attachment cache. Call it after
// every structural edit: insert, delete, limit change, group change.
func Recalculate(layers []Layer) ([]Layer, error) {
	out := cloneLayers(layers)
	floor := Money{}

	i := 0
	for i < len(out) {
		if !out[i].Limit.IsPositive() {
			return nil, &LimitError{Index: i, Carrier: out[i].Carrier, Limit: out[i].Limit}
		}

		if !out[i].InQuotaShareGroup() {
			out[i].Attachment = floor
			floor = floor.Add(out[i].Limit)
			i++
			continue
		}

		// Contiguous run declaring the same combined capacity makes one
		// group. Every member sits at the current floor.
		group := *out[i].QuotaShareGroupCapacity
		j := i
		for j < len(out) && out[j].InQuotaShareGroup() && out[j].QuotaShareGroupCapacity.Equal(group) {
			if !out[j].Limit.IsPositive() {
				return nil, &LimitError{Index: j, Carrier: out[j].Carrier, Limit: out[j].Limit}
			}
			out[j].Attachment = floor
			j++
		}

		// The group counts once against the layers above it.
		floor = floor.Add(group)
		i = j
	}

	return out, nil
}

// AttachmentOf returns the attachment point of the layer at index,
// derived from the full stack. The input is untouched.
func AttachmentOf(layers []Layer, index int) (Money, error) {
	if index < 0 || index >= len(layers) {
		return Money{}, ErrLayerIndex
	}
	resolved, err := Recalculate(layers)
	if err != nil {
		return Money{}, err
	}
	return resolved[index].Attachment, nil
}

// ValidateOrder checks that cached attachments on the input are
// non-descending. A freshly loaded tower that was never recalculated
// passes trivially (all caches zero); a tower persisted with a
// descending cache is malformed and is rejected rather than repaired.
func ValidateOrder(layers []Layer) error {
	for i := 1; i < len(layers); i++ {
		if layers[i].Attachment.LessThan(layers[i-1].Attachment) {
			return &OrderError{
				Index:      i,
				Attachment: layers[i].Attachment,
				Previous:   layers[i-1].Attachment,
			}
		}
	}
	return nil
}
