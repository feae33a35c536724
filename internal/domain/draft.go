package domain

// Draft is the in-progress profile for the current session. It has a single
// owner (the step engine) and is discarded once it has been saved.
type Draft struct {
	UserType UserType
	Name     string
	values   map[Field]Choice
}

func NewDraft(t UserType) *Draft {
	return &Draft{UserType: t, values: make(map[Field]Choice)}
}

// Set stores c under f, converted to the field's persisted shape. An empty
// choice removes the field.
func (d *Draft) Set(f Field, c Choice) {
	if d.values == nil {
		d.values = make(map[Field]Choice)
	}
	if f == FieldName {
		d.Name = Scalar(c.String()).String()
		return
	}
	c = c.As(f.Shape())
	if c.IsEmpty() {
		delete(d.values, f)
		return
	}
	d.values[f] = c
}

func (d *Draft) Get(f Field) (Choice, bool) {
	if f == FieldName {
		return Scalar(d.Name), d.Name != ""
	}
	c, ok := d.values[f]
	return c, ok
}

// Value returns the stored choice for f, or an empty choice of the field's
// shape.
func (d *Draft) Value(f Field) Choice {
	if c, ok := d.Get(f); ok {
		return c
	}
	if f.Shape() == ShapeList {
		return List()
	}
	return Choice{}
}

func (d *Draft) Has(f Field) bool {
	_, ok := d.Get(f)
	return ok
}

// Fields returns the answered profile fields in display order.
func (d *Draft) Fields() []Field {
	var out []Field
	for _, f := range ProfileFields(d.UserType) {
		if _, ok := d.values[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

func (d *Draft) Len() int { return len(d.values) }

func (d *Draft) Clone() *Draft {
	c := NewDraft(d.UserType)
	c.Name = d.Name
	for f, v := range d.values {
		c.values[f] = v
	}
	return c
}

// Seed copies the answered fields and name of p into d. Fields that do not
// belong to d's user type are ignored.
func (d *Draft) Seed(p *Profile) {
	if p == nil {
		return
	}
	if p.Name != "" {
		d.Name = p.Name
	}
	for _, f := range ProfileFields(d.UserType) {
		if c, ok := p.Values[f]; ok && !c.IsEmpty() {
			d.Set(f, c)
		}
	}
}

// Payload assembles the save-complete body: every answered field, the name,
// the identity and completed=true.
func (d *Draft) Payload(id Identity) map[string]any {
	body := make(map[string]any, len(d.values)+4)
	for f, c := range d.values {
		body[string(f)] = c
	}
	body[string(FieldName)] = d.Name
	body["user_id"] = id.UserID
	body["user_type"] = string(d.UserType)
	body["completed"] = true
	return body
}
