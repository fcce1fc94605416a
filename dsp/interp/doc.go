// Package interp provides the cubic interpolation kernels shared by the
// coefficient lookup tables and the comb filter delay memory.
//
//   - [Linear2]:        2-point linear interpolation
//   - [Hermite4]:       4-point cubic Hermite / Catmull-Rom
//   - [CatmullWeights]: the same kernel expressed as four tap weights
//
// All functions are generic over float32 and float64.
package interp
