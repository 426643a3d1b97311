package model

// ImageSlot identifies where a generated image belongs.
type ImageSlot string

const (
	SlotTopic ImageSlot = "topic"
	SlotHook  ImageSlot = "hook"
	SlotBody  ImageSlot = "body"
)

// Image is an opaque generated picture. Data is base64 encoded in JSON.
type Image struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
}

// ThreadImages holds the images attached to a thread. Absent images are nil;
// BodyImages is index-aligned with the thread's body posts.
type ThreadImages struct {
	Topic *Image   `json:"topic_image,omitempty"`
	Hook  *Image   `json:"hook_image,omitempty"`
	Body  []*Image `json:"body_images,omitempty"`
}

// Count returns how many images are present.
func (i ThreadImages) Count() int {
	n := 0
	if i.Topic != nil {
		n++
	}
	if i.Hook != nil {
		n++
	}
	for _, img := range i.Body {
		if img != nil {
			n++
		}
	}
	return n
}

// Clone returns a copy whose Body slice can be modified independently.
func (i ThreadImages) Clone() ThreadImages {
	i.Body = append([]*Image(nil), i.Body...)
	return i
}
