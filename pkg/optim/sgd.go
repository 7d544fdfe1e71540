package optim

// SGD is stochastic gradient descent with a fixed learning rate and an
// optional L2 penalty on the weights.
type SGD struct {
	LearningRate float64
	L2           float64
}

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

// WithL2 sets the weight decay applied on every step.
func (o *SGD) WithL2(lambda float64) *SGD {
	o.L2 = lambda
	return o
}

// Step updates weights in place: w -= lr * (grad + L2 * w).
func (o *SGD) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * (grads[i] + o.L2*weights[i])
	}
}
